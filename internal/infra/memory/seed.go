package memory

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Store agrupa os repositórios em memória de uma sessão.
type Store struct {
	Stages    *StageRepository
	Deals     *DealRepository
	Tasks     *TaskRepository
	Customers *CustomerRepository
	Assets    *AssetRepository
	Agents    *AgentRepository
}

const SalesPipelineID = "pl-vendas"

// Seed monta os dados de demonstração usados quando não há banco configurado.
func Seed(now time.Time) *Store {
	day := func(n int) *time.Time {
		t := now.AddDate(0, 0, n).Truncate(24 * time.Hour)
		return &t
	}
	money := func(v float64) *float64 { return &v }

	stages := []entity.Stage{
		{ID: "st-prospeccao", PipelineID: SalesPipelineID, Title: "Prospecção", Order: 1},
		{ID: "st-qualificacao", PipelineID: SalesPipelineID, Title: "Qualificação", Order: 2},
		{ID: "st-proposta", PipelineID: SalesPipelineID, Title: "Proposta", Order: 3},
		{ID: "st-negociacao", PipelineID: SalesPipelineID, Title: "Negociação", Order: 4},
		{ID: "st-fechamento", PipelineID: SalesPipelineID, Title: "Fechamento", Order: 5},
	}

	deals := []entity.Deal{
		{
			ID: "deal-1", Title: "Plano empresarial Acme", StageID: "st-prospeccao", Status: entity.DealOpen,
			Amount: money(12000), CustomerName: "Mariana Costa", CustomerOrganization: "Acme Ltda",
			CustomerType: entity.CustomerCompany, Type: "new_business", StartDate: day(-10),
			Interests: []string{"telemedicina", "odontologia"}, Description: "Cotação para 40 vidas",
			CreatedAt: now.AddDate(0, 0, -12), UpdatedAt: now.AddDate(0, 0, -12),
		},
		{
			ID: "deal-2", Title: "Renovação Padaria Sol", StageID: "st-qualificacao", Status: entity.DealOpen,
			Amount: money(3500), CustomerName: "João Pereira", CustomerOrganization: "Padaria Sol",
			CustomerType: entity.CustomerCompany, Type: "renewal", StartDate: day(-3), EndDate: day(27),
			Interests: []string{"telemedicina"},
			CreatedAt: now.AddDate(0, 0, -5), UpdatedAt: now.AddDate(0, 0, -5),
		},
		{
			ID: "deal-3", Title: "Plano individual Ana", StageID: "st-proposta", Status: entity.DealOpen,
			CustomerName: "Ana Souza", CustomerType: entity.CustomerIndividual, Type: "new_business",
			Interests: []string{"nutricao"},
			CreatedAt: now.AddDate(0, 0, -2), UpdatedAt: now.AddDate(0, 0, -2),
		},
		{
			ID: "deal-4", Title: "Expansão Beta Tech", StageID: "st-negociacao", Status: entity.DealWon,
			Amount: money(48000), CustomerName: "Carlos Lima", CustomerOrganization: "Beta Tech",
			CustomerType: entity.CustomerCompany, Type: "upsell", StartDate: day(-30), EndDate: day(-1),
			Description: "Inclusão de dependentes",
			CreatedAt: now.AddDate(0, 0, -40), UpdatedAt: now.AddDate(0, 0, -1),
		},
		{
			ID: "deal-5", Title: "Clínica Vida", StageID: "st-fechamento", Status: entity.DealLost,
			Amount: money(9000), CustomerName: "Beatriz Alves", CustomerOrganization: "Clínica Vida",
			CustomerType: entity.CustomerCompany, Type: "new_business", ReasonForLoss: "Preço",
			CreatedAt: now.AddDate(0, 0, -20), UpdatedAt: now.AddDate(0, 0, -8),
		},
	}

	tasks := []entity.Task{
		{ID: "task-1", Title: "Ligar para Mariana", Status: entity.TaskOpen, Priority: entity.PriorityHigh, DealID: "deal-1", CreatedAt: now, UpdatedAt: now},
		{ID: "task-2", Title: "Enviar proposta", Description: "PDF com tabela de preços", Status: entity.TaskProcessing, Priority: entity.PriorityMedium, DealID: "deal-3", CreatedAt: now, UpdatedAt: now},
		{ID: "task-3", Title: "Assinar contrato Beta Tech", Status: entity.TaskCompleted, Priority: entity.PriorityHigh, DealID: "deal-4", CreatedAt: now, UpdatedAt: now},
		{ID: "task-4", Title: "Reunião Clínica Vida", Status: entity.TaskCancelled, Priority: entity.PriorityLow, DealID: "deal-5", CreatedAt: now, UpdatedAt: now},
		{ID: "task-5", Title: "Atualizar cadastro", Status: entity.TaskOpen, Priority: entity.PriorityLow, CreatedAt: now, UpdatedAt: now},
	}

	return &Store{
		Stages:    NewStageRepository(stages...),
		Deals:     NewDealRepository(deals...),
		Tasks:     NewTaskRepository(tasks...),
		Customers: NewCustomerRepository(),
		Assets:    NewAssetRepository(),
		Agents:    NewAgentRepository(),
	}
}
