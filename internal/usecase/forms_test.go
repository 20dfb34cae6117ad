package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/memory"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

var submittedAt = time.Date(2024, 5, 20, 14, 30, 0, 0, time.UTC)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VALIDATION_ERROR", de.Code)
	fields := make([]string, len(de.Fields))
	for i, f := range de.Fields {
		fields[i] = f.Field
	}
	return fields
}

func newFormUseCase(deals usecase.DealWriter, customers entity.CustomerRepository) (*usecase.FormUseCase, *usecase.DealBoard) {
	board := usecase.NewDealBoard(testStages(), testDeals(), nil, nil)
	uc := usecase.NewFormUseCase(board, deals, customers, memory.NewAssetRepository(), memory.NewAgentRepository())
	uc.Now = func() time.Time { return submittedAt }
	return uc, board
}

// ============ DealDraft ============

func TestDealDraftApplyPatchOnlyTouchesPresentKeys(t *testing.T) {
	draft := usecase.NewDealDraft("s1")

	require.NoError(t, draft.ApplyPatch([]byte(`{"title":"Novo negócio","amount":1500}`)))
	require.NoError(t, draft.ApplyPatch([]byte(`{"customer_name":"Ana"}`)))

	assert.Equal(t, "Novo negócio", draft.Title)
	assert.Equal(t, "Ana", draft.CustomerName)
	assert.Equal(t, "s1", draft.StageID)
	assert.Equal(t, entity.DealOpen, draft.Status)
	require.NotNil(t, draft.Amount)
	assert.Equal(t, 1500.0, *draft.Amount)
}

func TestDealDraftApplyPatchRejectsInvalidJSON(t *testing.T) {
	err := usecase.NewDealDraft("s1").ApplyPatch([]byte(`{"title":`))

	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_PATCH", de.Code)
}

func TestDealDraftSubmitReportsMissingFields(t *testing.T) {
	draft := usecase.NewDealDraft("")

	_, err := draft.Submit(submittedAt)

	assert.Equal(t, []string{"title", "stage_id"}, fieldsOf(t, err))
}

func TestDealDraftValidationRules(t *testing.T) {
	draft := usecase.NewDealDraft("s1")
	require.NoError(t, draft.ApplyPatch([]byte(`{
		"title": "X",
		"status": "lost",
		"customer_type": "alien",
		"amount": -1,
		"start_date": "2024-05-10T00:00:00Z",
		"end_date": "2024-05-01T00:00:00Z"
	}`)))

	_, err := draft.Submit(submittedAt)

	assert.Equal(t, []string{"reason_for_loss", "customer_type", "amount", "end_date"}, fieldsOf(t, err))
}

func TestDealDraftSubmitStampsIdentity(t *testing.T) {
	draft := usecase.NewDealDraft("s1")
	draft.Title = "  Plano Acme  "

	deal, err := draft.Submit(submittedAt)

	require.NoError(t, err)
	assert.NotEmpty(t, deal.ID)
	assert.Equal(t, "Plano Acme", deal.Title)
	assert.Equal(t, entity.DealOpen, deal.Status)
	assert.Equal(t, submittedAt, deal.CreatedAt)
	assert.Equal(t, submittedAt, deal.UpdatedAt)
}

func TestEditDealDraftKeepsIDAndCreatedAt(t *testing.T) {
	created := submittedAt.AddDate(0, -1, 0)
	original := entity.Deal{ID: "d1", Title: "Alpha", StageID: "s1", Status: entity.DealOpen, CreatedAt: created}

	draft := usecase.EditDealDraft(original)
	require.NoError(t, draft.ApplyPatch([]byte(`{"title":"Alpha 2"}`)))
	deal, err := draft.Submit(submittedAt)

	require.NoError(t, err)
	assert.Equal(t, "d1", deal.ID)
	assert.Equal(t, "Alpha 2", deal.Title)
	assert.Equal(t, created, deal.CreatedAt)
	assert.Equal(t, submittedAt, deal.UpdatedAt)
}

// ============ Asset / Agent ============

func TestAssetDraft(t *testing.T) {
	draft := &usecase.AssetDraft{}
	_, err := draft.Submit(submittedAt)
	assert.Equal(t, []string{"name", "kind"}, fieldsOf(t, err))

	require.NoError(t, draft.ApplyPatch([]byte(`{"name":"Notebook","kind":"equipamento","value":4500}`)))
	asset, err := draft.Submit(submittedAt)
	require.NoError(t, err)
	assert.NotEmpty(t, asset.ID)
	assert.Equal(t, "Notebook", asset.Name)
	assert.Equal(t, submittedAt, asset.CreatedAt)
}

func TestAgentDraftDefaultsAndRange(t *testing.T) {
	draft := usecase.NewAgentDraft()
	assert.Equal(t, 0.7, draft.Temperature)
	assert.True(t, draft.Active)

	require.NoError(t, draft.ApplyPatch([]byte(`{"name":"SDR","model":"gpt-4o","prompt":"Qualifique o lead","temperature":2.5}`)))
	_, err := draft.Submit(submittedAt)
	assert.Equal(t, []string{"temperature"}, fieldsOf(t, err))

	require.NoError(t, draft.ApplyPatch([]byte(`{"temperature":0}`)))
	agent, err := draft.Submit(submittedAt)
	require.NoError(t, err)
	assert.Equal(t, 0.0, agent.Temperature)
	assert.True(t, agent.Active)
}

// ============ Customer ============

func TestCustomerDraftValidation(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		want  []string
	}{
		{"vazio", `{}`, []string{"name", "email", "type"}},
		{"email inválido", `{"name":"Ana","email":"ana","type":"individual","document":"52998224725"}`, []string{"email"}},
		{"telefone curto", `{"name":"Ana","email":"ana@x.com","phone":"1234","type":"individual","document":"52998224725"}`, []string{"phone"}},
		{"cpf inválido", `{"name":"Ana","email":"ana@x.com","type":"individual","document":"12345678900"}`, []string{"document"}},
		{"empresa sem cnpj válido nem razão social", `{"name":"Acme","email":"a@acme.com","type":"company","document":"11222333000100"}`, []string{"document", "organization"}},
		{"tipo desconhecido", `{"name":"Ana","email":"ana@x.com","type":"robot"}`, []string{"type"}},
		{"cep inválido", `{"name":"Ana","email":"ana@x.com","type":"individual","document":"52998224725","address":{"zip_code":"123"}}`, []string{"zip_code"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := &usecase.CustomerDraft{}
			require.NoError(t, draft.ApplyPatch([]byte(tt.patch)))
			_, err := draft.Submit(submittedAt)
			assert.Equal(t, tt.want, fieldsOf(t, err))
		})
	}
}

func TestCustomerDraftSubmitStoresDigitsOnly(t *testing.T) {
	draft := &usecase.CustomerDraft{}
	require.NoError(t, draft.ApplyPatch([]byte(`{
		"name": "Acme Ltda",
		"email": "contato@acme.com",
		"phone": "(11) 98765-4321",
		"type": "company",
		"document": "11.222.333/0001-81",
		"organization": "Acme"
	}`)))

	c, err := draft.Submit(submittedAt)

	require.NoError(t, err)
	assert.Equal(t, "11222333000181", c.Document)
	assert.Equal(t, "11987654321", c.Phone)
}

// ============ FormUseCase ============

func TestFormUseCaseSubmitDealAddsToBoard(t *testing.T) {
	repo := new(MockDealRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Deal")).Return(nil)
	uc, board := newFormUseCase(repo, nil)

	draft := usecase.NewDealDraft("s3")
	draft.Title = "Novo"
	deal, err := uc.SubmitDeal(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, submittedAt, deal.CreatedAt)
	cols := board.Columns("p1", usecase.DealQuery{})
	assert.Equal(t, []string{deal.ID}, dealIDs(cols[2].Deals))
	repo.AssertExpectations(t)
}

func TestFormUseCaseSubmitDealUnknownStage(t *testing.T) {
	repo := new(MockDealRepository)
	uc, board := newFormUseCase(repo, nil)

	draft := usecase.NewDealDraft("s-inexistente")
	draft.Title = "Novo"
	_, err := uc.SubmitDeal(context.Background(), draft)

	assert.Equal(t, []string{"stage_id"}, fieldsOf(t, err))
	assert.Len(t, board.Deals(), 3)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFormUseCaseSubmitDealRepositoryFailure(t *testing.T) {
	repo := new(MockDealRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db fora"))
	uc, board := newFormUseCase(repo, nil)

	draft := usecase.NewDealDraft("s1")
	draft.Title = "Novo"
	_, err := uc.SubmitDeal(context.Background(), draft)

	assert.True(t, usecase.IsTechnicalError(err))
	assert.Len(t, board.Deals(), 3)
}

func TestFormUseCaseSubmitCustomerDuplicateDocument(t *testing.T) {
	customers := new(MockCustomerRepository)
	customers.On("Create", mock.Anything, mock.Anything).Return(entity.ErrDocumentAlreadyExists)
	uc, _ := newFormUseCase(nil, customers)

	draft := &usecase.CustomerDraft{Name: "Ana", Email: "ana@x.com", Type: entity.CustomerIndividual, Document: "52998224725"}
	_, err := uc.SubmitCustomer(context.Background(), draft)

	var de *usecase.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "DUPLICATE_DOCUMENT", de.Code)
}

func TestFormUseCaseSubmitCustomer(t *testing.T) {
	customers := new(MockCustomerRepository)
	customers.On("Create", mock.Anything, mock.MatchedBy(func(c *entity.Customer) bool {
		return c.Document == "52998224725"
	})).Return(nil)
	uc, _ := newFormUseCase(nil, customers)

	draft := &usecase.CustomerDraft{Name: "Ana", Email: "ana@x.com", Type: entity.CustomerIndividual, Document: "529.982.247-25"}
	c, err := uc.SubmitCustomer(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, submittedAt, c.CreatedAt)
	customers.AssertExpectations(t)
}

func TestFormUseCaseUpdateDealKeepsCreatedAt(t *testing.T) {
	created := submittedAt.AddDate(0, -1, 0)
	repo := new(MockDealRepository)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(d *entity.Deal) bool {
		return d.ID == "d2" && d.Title == "Beta renovado"
	})).Return(nil)

	deals := testDeals()
	deals[1].CreatedAt = created
	board := usecase.NewDealBoard(testStages(), deals, nil, nil)
	uc := usecase.NewFormUseCase(board, repo, nil, nil, nil)
	uc.Now = func() time.Time { return submittedAt }

	deal, err := uc.UpdateDeal(context.Background(), "d2", []byte(`{"title":"Beta renovado","amount":250}`))

	require.NoError(t, err)
	assert.Equal(t, "d2", deal.ID)
	assert.Equal(t, created, deal.CreatedAt)
	assert.Equal(t, submittedAt, deal.UpdatedAt)
	got, _ := board.Deal("d2")
	assert.Equal(t, "Beta renovado", got.Title)
	assert.Equal(t, 250.0, *got.Amount)
	assert.Len(t, board.Deals(), 3)
	repo.AssertExpectations(t)
}

func TestFormUseCaseUpdateDealErrors(t *testing.T) {
	repo := new(MockDealRepository)
	repo.On("Update", mock.Anything, mock.Anything).Return(errors.New("db fora"))
	uc, board := newFormUseCase(repo, nil)
	ctx := context.Background()

	_, err := uc.UpdateDeal(ctx, "d9", []byte(`{}`))
	assert.Equal(t, usecase.CodeNotFound, usecase.ErrorCode(err))

	_, err = uc.UpdateDeal(ctx, "d1", []byte(`{"title":""}`))
	assert.Equal(t, []string{"title"}, fieldsOf(t, err))

	_, err = uc.UpdateDeal(ctx, "d1", []byte(`{"stage_id":"ghost"}`))
	assert.Equal(t, []string{"stage_id"}, fieldsOf(t, err))

	_, err = uc.UpdateDeal(ctx, "d1", []byte(`{"title":"Alpha 2"}`))
	assert.True(t, usecase.IsTechnicalError(err))

	// nada disso chegou ao quadro
	assert.Equal(t, testDeals(), board.Deals())
}

func TestFormUseCaseUpdateCustomer(t *testing.T) {
	created := submittedAt.AddDate(-1, 0, 0)
	current := &entity.Customer{ID: "c1", Name: "Ana", Email: "ana@x.com", Type: entity.CustomerIndividual, Document: "52998224725", CreatedAt: created}
	customers := new(MockCustomerRepository)
	customers.On("FindByID", mock.Anything, "c1").Return(current, nil)
	customers.On("FindByID", mock.Anything, "c9").Return(nil, entity.ErrCustomerNotFound)
	customers.On("Update", mock.Anything, mock.MatchedBy(func(c *entity.Customer) bool {
		return c.ID == "c1" && c.Email == "ana@nova.com"
	})).Return(nil)
	uc, _ := newFormUseCase(nil, customers)

	c, err := uc.UpdateCustomer(context.Background(), "c1", []byte(`{"email":"ana@nova.com"}`))

	require.NoError(t, err)
	assert.Equal(t, created, c.CreatedAt)
	assert.Equal(t, submittedAt, c.UpdatedAt)
	assert.Equal(t, "Ana", c.Name)

	_, err = uc.UpdateCustomer(context.Background(), "c9", []byte(`{}`))
	assert.Equal(t, usecase.CodeNotFound, usecase.ErrorCode(err))
	customers.AssertExpectations(t)
}

func TestFormUseCaseAssetAndAgentRoundTrip(t *testing.T) {
	uc, _ := newFormUseCase(nil, nil)
	ctx := context.Background()

	asset, err := uc.SubmitAsset(ctx, &usecase.AssetDraft{Name: "Notebook", Kind: "equipamento"})
	require.NoError(t, err)

	later := submittedAt.Add(time.Hour)
	uc.Now = func() time.Time { return later }
	updated, err := uc.UpdateAsset(ctx, asset.ID, []byte(`{"value":4500}`))
	require.NoError(t, err)
	assert.Equal(t, asset.ID, updated.ID)
	assert.Equal(t, submittedAt, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, 4500.0, *updated.Value)

	_, err = uc.UpdateAsset(ctx, "a9", []byte(`{}`))
	assert.Equal(t, usecase.CodeNotFound, usecase.ErrorCode(err))

	draft := usecase.NewAgentDraft()
	draft.Name, draft.Model, draft.Prompt = "SDR", "gpt-4o", "Qualifique o lead"
	agent, err := uc.SubmitAgent(ctx, draft)
	require.NoError(t, err)

	agent2, err := uc.UpdateAgent(ctx, agent.ID, []byte(`{"active":false}`))
	require.NoError(t, err)
	assert.False(t, agent2.Active)
	assert.Equal(t, "SDR", agent2.Name)
	assert.Equal(t, agent.CreatedAt, agent2.CreatedAt)

	_, err = uc.UpdateAgent(ctx, agent.ID, []byte(`{"temperature":5}`))
	assert.Equal(t, []string{"temperature"}, fieldsOf(t, err))
}

func TestEditDraftsDoNotAliasSource(t *testing.T) {
	value := 10.0
	asset := entity.Asset{ID: "a1", Name: "Notebook", Kind: "equipamento", Value: &value}

	draft := usecase.EditAssetDraft(asset)
	require.NoError(t, draft.ApplyPatch([]byte(`{"value":99}`)))

	assert.Equal(t, 10.0, value)

	customer := entity.Customer{ID: "c1", Name: "Ana", CreatedAt: submittedAt}
	cd := usecase.EditCustomerDraft(customer)
	require.NoError(t, cd.ApplyPatch([]byte(`{"name":"Ana Maria"}`)))
	assert.Equal(t, "Ana", customer.Name)
}
