package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// draftIdentity guarda id e criação quando o rascunho edita um registro existente.
type draftIdentity struct {
	id        string
	createdAt time.Time
}

// stamp devolve id e timestamps no momento do envio.
func (d draftIdentity) stamp(now time.Time) (id string, createdAt, updatedAt time.Time) {
	if d.id == "" {
		return uuid.New().String(), now, now
	}
	return d.id, d.createdAt, now
}

// applyPatch mescla um objeto JSON parcial no rascunho: só as chaves presentes mudam.
func applyPatch(draft any, patch []byte) error {
	if err := json.Unmarshal(patch, draft); err != nil {
		return domainError(CodeInvalidPatch, "patch inválido: %v", err)
	}
	return nil
}

// --- Deal ---

type DealDraft struct {
	draftIdentity

	Title                string              `json:"title"`
	Description          string              `json:"description"`
	StageID              string              `json:"stage_id"`
	Status               entity.DealStatus   `json:"status"`
	Amount               *float64            `json:"amount"`
	CustomerName         string              `json:"customer_name"`
	CustomerOrganization string              `json:"customer_organization"`
	CustomerType         entity.CustomerType `json:"customer_type"`
	Type                 string              `json:"type"`
	StartDate            *time.Time          `json:"start_date"`
	EndDate              *time.Time          `json:"end_date"`
	Interests            []string            `json:"interests"`
	ReasonForLoss        string              `json:"reason_for_loss"`
	ExternalID           int                 `json:"external_id"`
}

func NewDealDraft(stageID string) *DealDraft {
	return &DealDraft{StageID: stageID, Status: entity.DealOpen}
}

// EditDealDraft abre um rascunho a partir de um negócio existente.
// O rascunho trabalha sobre uma cópia: editar não altera d.
func EditDealDraft(d entity.Deal) *DealDraft {
	d = d.Clone()
	return &DealDraft{
		draftIdentity:        draftIdentity{id: d.ID, createdAt: d.CreatedAt},
		Title:                d.Title,
		Description:          d.Description,
		StageID:              d.StageID,
		Status:               d.Status,
		Amount:               d.Amount,
		CustomerName:         d.CustomerName,
		CustomerOrganization: d.CustomerOrganization,
		CustomerType:         d.CustomerType,
		Type:                 d.Type,
		StartDate:            d.StartDate,
		EndDate:              d.EndDate,
		Interests:            d.Interests,
		ReasonForLoss:        d.ReasonForLoss,
		ExternalID:           d.ExternalID,
	}
}

func (d *DealDraft) ApplyPatch(patch []byte) error {
	return applyPatch(d, patch)
}

func (d *DealDraft) Validate() []ValidationError {
	var errs []ValidationError
	errs = required(errs, "title", d.Title)
	errs = required(errs, "stage_id", d.StageID)

	if d.Status != "" && !d.Status.Valid() {
		errs = append(errs, ValidationError{"status", "must be one of open, won, lost, canceled, completed"})
	}
	if d.Status == entity.DealLost {
		errs = required(errs, "reason_for_loss", d.ReasonForLoss)
	}
	if d.CustomerType != "" && !d.CustomerType.Valid() {
		errs = append(errs, ValidationError{"customer_type", "must be individual or company"})
	}
	if d.Amount != nil && *d.Amount < 0 {
		errs = append(errs, ValidationError{"amount", "must not be negative"})
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		errs = append(errs, ValidationError{"end_date", "must not be before start_date"})
	}
	return errs
}

func (d *DealDraft) Submit(now time.Time) (*entity.Deal, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return nil, newValidationFailure(errs)
	}
	id, createdAt, updatedAt := d.stamp(now)
	status := d.Status
	if status == "" {
		status = entity.DealOpen
	}
	deal := entity.Deal{
		ID:                   id,
		Title:                strings.TrimSpace(d.Title),
		Description:          d.Description,
		StageID:              d.StageID,
		Status:               status,
		Amount:               d.Amount,
		CustomerName:         d.CustomerName,
		CustomerOrganization: d.CustomerOrganization,
		CustomerType:         d.CustomerType,
		Type:                 d.Type,
		StartDate:            d.StartDate,
		EndDate:              d.EndDate,
		Interests:            d.Interests,
		ReasonForLoss:        d.ReasonForLoss,
		ExternalID:           d.ExternalID,
		CreatedAt:            createdAt,
		UpdatedAt:            updatedAt,
	}.Clone()
	return &deal, nil
}

// --- Asset ---

type AssetDraft struct {
	draftIdentity

	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Value      *float64 `json:"value"`
	CustomerID string   `json:"customer_id"`
}

func EditAssetDraft(a entity.Asset) *AssetDraft {
	a = a.Clone()
	return &AssetDraft{
		draftIdentity: draftIdentity{id: a.ID, createdAt: a.CreatedAt},
		Name:          a.Name,
		Kind:          a.Kind,
		Value:         a.Value,
		CustomerID:    a.CustomerID,
	}
}

func (d *AssetDraft) ApplyPatch(patch []byte) error {
	return applyPatch(d, patch)
}

func (d *AssetDraft) Validate() []ValidationError {
	var errs []ValidationError
	errs = required(errs, "name", d.Name)
	errs = required(errs, "kind", d.Kind)
	if d.Value != nil && *d.Value < 0 {
		errs = append(errs, ValidationError{"value", "must not be negative"})
	}
	return errs
}

func (d *AssetDraft) Submit(now time.Time) (*entity.Asset, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return nil, newValidationFailure(errs)
	}
	id, createdAt, updatedAt := d.stamp(now)
	asset := entity.Asset{
		ID:         id,
		Name:       strings.TrimSpace(d.Name),
		Kind:       d.Kind,
		Value:      d.Value,
		CustomerID: d.CustomerID,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}.Clone()
	return &asset, nil
}

// --- Agent ---

type AgentDraft struct {
	draftIdentity

	Name        string  `json:"name"`
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	Active      bool    `json:"active"`
	PipelineID  string  `json:"pipeline_id"`
}

func NewAgentDraft() *AgentDraft {
	return &AgentDraft{Temperature: 0.7, Active: true}
}

func EditAgentDraft(a entity.Agent) *AgentDraft {
	return &AgentDraft{
		draftIdentity: draftIdentity{id: a.ID, createdAt: a.CreatedAt},
		Name:          a.Name,
		Model:         a.Model,
		Prompt:        a.Prompt,
		Temperature:   a.Temperature,
		Active:        a.Active,
		PipelineID:    a.PipelineID,
	}
}

func (d *AgentDraft) ApplyPatch(patch []byte) error {
	return applyPatch(d, patch)
}

func (d *AgentDraft) Validate() []ValidationError {
	var errs []ValidationError
	errs = required(errs, "name", d.Name)
	errs = required(errs, "model", d.Model)
	errs = required(errs, "prompt", d.Prompt)
	if d.Temperature < 0 || d.Temperature > 2 {
		errs = append(errs, ValidationError{"temperature", "must be between 0 and 2"})
	}
	return errs
}

func (d *AgentDraft) Submit(now time.Time) (*entity.Agent, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return nil, newValidationFailure(errs)
	}
	id, createdAt, updatedAt := d.stamp(now)
	return &entity.Agent{
		ID:          id,
		Name:        strings.TrimSpace(d.Name),
		Model:       d.Model,
		Prompt:      d.Prompt,
		Temperature: d.Temperature,
		Active:      d.Active,
		PipelineID:  d.PipelineID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// --- Customer ---

type CustomerDraft struct {
	draftIdentity

	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone"`
	Type         entity.CustomerType `json:"type"`
	Document     string              `json:"document"`
	Organization string              `json:"organization"`
	Address      entity.Address      `json:"address"`
}

func EditCustomerDraft(c entity.Customer) *CustomerDraft {
	return &CustomerDraft{
		draftIdentity: draftIdentity{id: c.ID, createdAt: c.CreatedAt},
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Type:          c.Type,
		Document:      c.Document,
		Organization:  c.Organization,
		Address:       c.Address,
	}
}

func (d *CustomerDraft) ApplyPatch(patch []byte) error {
	return applyPatch(d, patch)
}

func (d *CustomerDraft) Validate() []ValidationError {
	var errs []ValidationError

	errs = required(errs, "name", d.Name)

	if strings.TrimSpace(d.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if !isValidEmail(d.Email) {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	if d.Phone != "" && !isValidPhoneNumber(d.Phone) {
		errs = append(errs, ValidationError{"phone", "must be a valid phone number"})
	}

	switch d.Type {
	case "":
		errs = append(errs, ValidationError{"type", "is required"})
	case entity.CustomerIndividual:
		if d.Document == "" {
			errs = append(errs, ValidationError{"document", "is required"})
		} else if !IsValidCPF(d.Document) {
			errs = append(errs, ValidationError{"document", "is not a valid CPF"})
		}
	case entity.CustomerCompany:
		if d.Document == "" {
			errs = append(errs, ValidationError{"document", "is required"})
		} else if !IsValidCNPJ(d.Document) {
			errs = append(errs, ValidationError{"document", "is not a valid CNPJ"})
		}
		errs = required(errs, "organization", d.Organization)
	default:
		errs = append(errs, ValidationError{"type", "must be individual or company"})
	}

	if d.Address.ZipCode != "" && !isValidZipCode(d.Address.ZipCode) {
		errs = append(errs, ValidationError{"zip_code", "must be a valid zip code (XXXXX-XXX)"})
	}
	return errs
}

func (d *CustomerDraft) Submit(now time.Time) (*entity.Customer, error) {
	if errs := d.Validate(); len(errs) > 0 {
		return nil, newValidationFailure(errs)
	}
	id, createdAt, updatedAt := d.stamp(now)
	return &entity.Customer{
		ID:           id,
		Name:         strings.TrimSpace(d.Name),
		Email:        strings.TrimSpace(d.Email),
		Phone:        OnlyDigits(d.Phone),
		Type:         d.Type,
		Document:     OnlyDigits(d.Document),
		Organization: d.Organization,
		Address:      d.Address,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

// FormUseCase recebe os formulários já preenchidos e registra as entidades.
// Repositórios nil só validam e devolvem a entidade pronta.
type FormUseCase struct {
	Board     *DealBoard
	Deals     DealWriter
	Customers entity.CustomerRepository
	Assets    entity.AssetRepository
	Agents    entity.AgentRepository
	Now       func() time.Time
}

func NewFormUseCase(board *DealBoard, deals DealWriter, customers entity.CustomerRepository, assets entity.AssetRepository, agents entity.AgentRepository) *FormUseCase {
	return &FormUseCase{
		Board:     board,
		Deals:     deals,
		Customers: customers,
		Assets:    assets,
		Agents:    agents,
		Now:       time.Now,
	}
}

// --- Negócios ---

func (uc *FormUseCase) SubmitDeal(ctx context.Context, draft *DealDraft) (*entity.Deal, error) {
	deal, err := uc.submitDeal(draft)
	if err != nil {
		return nil, err
	}
	if uc.Deals != nil {
		if err := uc.Deals.Create(ctx, deal); err != nil {
			return nil, databaseError("falha ao salvar negócio", err)
		}
	}
	uc.Board.Add(*deal)
	return deal, nil
}

// UpdateDeal aplica patch sobre o negócio atual do quadro. CreatedAt é mantido e UpdatedAt renovado.
func (uc *FormUseCase) UpdateDeal(ctx context.Context, id string, patch []byte) (*entity.Deal, error) {
	current, ok := uc.Board.Deal(id)
	if !ok {
		return nil, domainError(CodeNotFound, "negócio não encontrado: %s", id)
	}
	draft := EditDealDraft(current)
	if err := draft.ApplyPatch(patch); err != nil {
		return nil, err
	}
	deal, err := uc.submitDeal(draft)
	if err != nil {
		return nil, err
	}
	if uc.Deals != nil {
		if err := uc.Deals.Update(ctx, deal); err != nil {
			if errors.Is(err, entity.ErrDealNotFound) {
				return nil, domainError(CodeNotFound, "negócio não encontrado: %s", id)
			}
			return nil, databaseError("falha ao atualizar negócio", err)
		}
	}
	uc.Board.Replace(*deal)
	return deal, nil
}

func (uc *FormUseCase) submitDeal(draft *DealDraft) (*entity.Deal, error) {
	deal, err := draft.Submit(uc.Now())
	if err != nil {
		return nil, err
	}
	if _, ok := uc.Board.Stage(deal.StageID); !ok {
		return nil, newValidationFailure([]ValidationError{{"stage_id", "does not reference an existing stage"}})
	}
	return deal, nil
}

// --- Clientes ---

func (uc *FormUseCase) SubmitCustomer(ctx context.Context, draft *CustomerDraft) (*entity.Customer, error) {
	customer, err := draft.Submit(uc.Now())
	if err != nil {
		return nil, err
	}
	if uc.Customers != nil {
		if err := uc.Customers.Create(ctx, customer); err != nil {
			return nil, customerError(err, "falha ao salvar cliente")
		}
	}
	return customer, nil
}

func (uc *FormUseCase) FindCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	if uc.Customers == nil {
		return nil, domainError(CodeNotFound, "cliente não encontrado: %s", id)
	}
	c, err := uc.Customers.FindByID(ctx, id)
	if err != nil {
		return nil, customerError(err, "falha ao buscar cliente")
	}
	return c, nil
}

func (uc *FormUseCase) UpdateCustomer(ctx context.Context, id string, patch []byte) (*entity.Customer, error) {
	current, err := uc.FindCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := EditCustomerDraft(*current)
	if err := draft.ApplyPatch(patch); err != nil {
		return nil, err
	}
	customer, err := draft.Submit(uc.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.Customers.Update(ctx, customer); err != nil {
		return nil, customerError(err, "falha ao atualizar cliente")
	}
	return customer, nil
}

func customerError(err error, what string) error {
	switch {
	case errors.Is(err, entity.ErrDocumentAlreadyExists):
		return domainError(CodeDuplicateDocument, "%v", err)
	case errors.Is(err, entity.ErrCustomerNotFound):
		return domainError(CodeNotFound, "%v", err)
	}
	return databaseError(what, err)
}

// --- Ativos ---

func (uc *FormUseCase) SubmitAsset(ctx context.Context, draft *AssetDraft) (*entity.Asset, error) {
	asset, err := draft.Submit(uc.Now())
	if err != nil {
		return nil, err
	}
	if uc.Assets != nil {
		if err := uc.Assets.Create(ctx, asset); err != nil {
			return nil, databaseError("falha ao salvar ativo", err)
		}
	}
	return asset, nil
}

func (uc *FormUseCase) UpdateAsset(ctx context.Context, id string, patch []byte) (*entity.Asset, error) {
	if uc.Assets == nil {
		return nil, domainError(CodeNotFound, "ativo não encontrado: %s", id)
	}
	current, err := uc.Assets.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entity.ErrAssetNotFound, "falha ao buscar ativo")
	}
	draft := EditAssetDraft(*current)
	if err := draft.ApplyPatch(patch); err != nil {
		return nil, err
	}
	asset, err := draft.Submit(uc.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.Assets.Update(ctx, asset); err != nil {
		return nil, lookupError(err, entity.ErrAssetNotFound, "falha ao atualizar ativo")
	}
	return asset, nil
}

// --- Agentes ---

func (uc *FormUseCase) SubmitAgent(ctx context.Context, draft *AgentDraft) (*entity.Agent, error) {
	agent, err := draft.Submit(uc.Now())
	if err != nil {
		return nil, err
	}
	if uc.Agents != nil {
		if err := uc.Agents.Create(ctx, agent); err != nil {
			return nil, databaseError("falha ao salvar agente", err)
		}
	}
	return agent, nil
}

func (uc *FormUseCase) UpdateAgent(ctx context.Context, id string, patch []byte) (*entity.Agent, error) {
	if uc.Agents == nil {
		return nil, domainError(CodeNotFound, "agente não encontrado: %s", id)
	}
	current, err := uc.Agents.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entity.ErrAgentNotFound, "falha ao buscar agente")
	}
	draft := EditAgentDraft(*current)
	if err := draft.ApplyPatch(patch); err != nil {
		return nil, err
	}
	agent, err := draft.Submit(uc.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.Agents.Update(ctx, agent); err != nil {
		return nil, lookupError(err, entity.ErrAgentNotFound, "falha ao atualizar agente")
	}
	return agent, nil
}

// lookupError separa "não existe" (404) de falha de banco.
func lookupError(err, notFound error, what string) error {
	if errors.Is(err, notFound) {
		return domainError(CodeNotFound, "%v", err)
	}
	return databaseError(what, err)
}
