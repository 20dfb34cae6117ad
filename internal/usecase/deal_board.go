package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// DragLocation e DragEndEvent seguem o formato do evento de drag-and-drop do front.
type DragLocation struct {
	DroppableID string `json:"droppableId"`
	Index       int    `json:"index"`
}

type DragEndEvent struct {
	Source      DragLocation  `json:"source"`
	Destination *DragLocation `json:"destination"`
	DraggableID string        `json:"draggableId"`
}

func (ev DragEndEvent) sameColumn() bool {
	return ev.Destination != nil && ev.Destination.DroppableID == ev.Source.DroppableID
}

type DragOutcome string

const (
	DragMoved         DragOutcome = "moved"
	DragNoOp          DragOutcome = "noop"
	DragNotFound      DragOutcome = "not_found"
	DragInvalidColumn DragOutcome = "invalid_column"
)

type DragResult struct {
	Outcome     DragOutcome
	Deals       []entity.Deal
	Deal        *entity.Deal
	FromStageID string
	Message     string
}

const fallbackStageLabel = "nova etapa"

// ReassignStage aplica o fim de um arraste no quadro de negócios.
// Só movimentos entre colunas alteram algo, e só o StageID do negócio arrastado muda.
// Quando nada muda, Deals é a própria lista recebida.
func ReassignStage(deals []entity.Deal, stages []entity.Stage, ev DragEndEvent) DragResult {
	noop := DragResult{Outcome: DragNoOp, Deals: deals}

	if ev.Destination == nil {
		return noop
	}
	// Reordenar dentro da mesma coluna não é suportado, então qualquer soltura na origem é no-op.
	if ev.sameColumn() {
		return noop
	}

	idx := slices.IndexFunc(deals, func(d entity.Deal) bool { return d.ID == ev.DraggableID })
	if idx < 0 {
		return DragResult{Outcome: DragNotFound, Deals: deals}
	}

	target := ev.Destination.DroppableID
	if deals[idx].StageID == target {
		return noop
	}

	updated := slices.Clone(deals)
	moved := deals[idx].Clone()
	moved.StageID = target
	updated[idx] = moved

	return DragResult{
		Outcome:     DragMoved,
		Deals:       updated,
		Deal:        &moved,
		FromStageID: deals[idx].StageID,
		Message:     fmt.Sprintf("Negócio movido para %s", stageLabel(stages, target)),
	}
}

func stageLabel(stages []entity.Stage, id string) string {
	for _, s := range stages {
		if s.ID == id && s.Title != "" {
			return fmt.Sprintf(`"%s"`, s.Title)
		}
	}
	return fallbackStageLabel
}

// DealColumn é uma coluna do quadro: a etapa e seus negócios.
type DealColumn struct {
	Stage entity.Stage  `json:"stage"`
	Deals []entity.Deal `json:"deals"`
}

// DealBoard guarda o estado do quadro de negócios da sessão.
// Leituras devolvem cópias; mutações trocam a lista inteira de uma vez.
type DealBoard struct {
	mu     sync.RWMutex
	deals  []entity.Deal
	stages []entity.Stage

	repo      DealStageWriter
	publisher EventPublisher
	now       func() time.Time
}

func NewDealBoard(stages []entity.Stage, deals []entity.Deal, repo DealStageWriter, publisher EventPublisher) *DealBoard {
	sorted := slices.Clone(stages)
	entity.SortStages(sorted)
	return &DealBoard{
		deals:     cloneDeals(deals),
		stages:    sorted,
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

type dealBoardSource interface {
	List(ctx context.Context) ([]entity.Deal, error)
	UpdateStage(ctx context.Context, dealID, stageID string) error
}

type stageLister interface {
	List(ctx context.Context) ([]entity.Stage, error)
}

// LoadDealBoard monta o quadro a partir dos repositórios. Os movimentos são gravados de volta em deals.
func LoadDealBoard(ctx context.Context, stages stageLister, deals dealBoardSource, publisher EventPublisher) (*DealBoard, error) {
	st, err := stages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar etapas: %w", err)
	}
	ds, err := deals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar negócios: %w", err)
	}
	return NewDealBoard(st, ds, deals, publisher), nil
}

// Deals devolve cópias profundas: quem recebe pode alterar à vontade.
func (b *DealBoard) Deals() []entity.Deal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneDeals(b.deals)
}

func (b *DealBoard) Deal(id string) (entity.Deal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, d := range b.deals {
		if d.ID == id {
			return d.Clone(), true
		}
	}
	return entity.Deal{}, false
}

func cloneDeals(deals []entity.Deal) []entity.Deal {
	out := make([]entity.Deal, len(deals))
	for i, d := range deals {
		out[i] = d.Clone()
	}
	return out
}

// Stages devolve as etapas do pipeline em ordem; pipelineID vazio devolve todas.
func (b *DealBoard) Stages(pipelineID string) []entity.Stage {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]entity.Stage, 0, len(b.stages))
	for _, s := range b.stages {
		if pipelineID == "" || s.PipelineID == pipelineID {
			out = append(out, s)
		}
	}
	return out
}

func (b *DealBoard) Stage(id string) (entity.Stage, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stageLocked(id)
}

// Columns agrupa os negócios (já filtrados por q) pelas etapas do pipeline.
func (b *DealBoard) Columns(pipelineID string, q DealQuery) []DealColumn {
	stages := b.Stages(pipelineID)
	deals := ApplyDealQuery(b.Deals(), q)

	byStage := make(map[string][]entity.Deal, len(stages))
	for _, d := range deals {
		byStage[d.StageID] = append(byStage[d.StageID], d)
	}

	cols := make([]DealColumn, 0, len(stages))
	for _, s := range stages {
		ds := byStage[s.ID]
		if ds == nil {
			ds = []entity.Deal{}
		}
		cols = append(cols, DealColumn{Stage: s, Deals: ds})
	}
	return cols
}

func (b *DealBoard) List(q DealQuery) []entity.Deal {
	return ApplyDealQuery(b.Deals(), q)
}

func (b *DealBoard) Add(d entity.Deal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := make([]entity.Deal, 0, len(b.deals)+1)
	next = append(next, b.deals...)
	b.deals = append(next, d.Clone())
}

// Replace troca um negócio existente (mesmo ID). Devolve false se não existir.
func (b *DealBoard) Replace(d entity.Deal) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := slices.IndexFunc(b.deals, func(x entity.Deal) bool { return x.ID == d.ID })
	if idx < 0 {
		return false
	}
	next := slices.Clone(b.deals)
	next[idx] = d.Clone()
	b.deals = next
	return true
}

// HandleDragEnd aplica o arraste e troca o estado numa única atribuição.
// O destino precisa ser uma etapa do mesmo pipeline da origem; senão o
// resultado é DragInvalidColumn e nada muda.
// Se o repositório recusar a gravação o quadro fica como estava.
func (b *DealBoard) HandleDragEnd(ctx context.Context, ev DragEndEvent) (DragResult, error) {
	b.mu.Lock()
	res := ReassignStage(b.deals, b.stages, ev)
	if res.Outcome == DragMoved && !b.sameBoardLocked(res.FromStageID, res.Deal.StageID) {
		res = DragResult{
			Outcome: DragInvalidColumn,
			Message: fmt.Sprintf("Etapa de destino inválida: %s", res.Deal.StageID),
		}
	}
	if res.Outcome != DragMoved {
		res.Deals = cloneDeals(b.deals)
		b.mu.Unlock()
		return res, nil
	}

	if b.repo != nil {
		if err := b.repo.UpdateStage(ctx, res.Deal.ID, res.Deal.StageID); err != nil {
			b.mu.Unlock()
			return DragResult{Outcome: DragNoOp, Deals: b.Deals()}, databaseError("falha ao gravar a nova etapa do negócio", err)
		}
	}

	b.deals = res.Deals
	res.Deals = cloneDeals(res.Deals)
	moved := res.Deal.Clone()
	res.Deal = &moved
	stage, _ := b.stageLocked(res.Deal.StageID)
	b.mu.Unlock()

	log.WithFields(log.Fields{
		"deal_id": res.Deal.ID,
		"from":    res.FromStageID,
		"to":      res.Deal.StageID,
	}).Info("🔀 Negócio movido de etapa")

	b.publishMove(ctx, *res.Deal, res.FromStageID, stage)
	return res, nil
}

// sameBoardLocked diz se as duas etapas existem e pertencem ao mesmo pipeline.
// Uma origem fora do quadro não bloqueia: o negócio pode ter vindo de uma etapa já removida.
func (b *DealBoard) sameBoardLocked(fromID, toID string) bool {
	to, ok := b.stageLocked(toID)
	if !ok {
		return false
	}
	from, ok := b.stageLocked(fromID)
	return !ok || from.PipelineID == to.PipelineID
}

func (b *DealBoard) stageLocked(id string) (entity.Stage, bool) {
	for _, s := range b.stages {
		if s.ID == id {
			return s, true
		}
	}
	return entity.Stage{}, false
}

func (b *DealBoard) publishMove(ctx context.Context, d entity.Deal, from string, to entity.Stage) {
	if b.publisher == nil {
		return
	}
	event := queue.DealMovedEvent{
		EventID:          uuid.New().String(),
		DealID:           d.ID,
		DealTitle:        d.Title,
		FromStageID:      from,
		ToStageID:        d.StageID,
		ToStageTitle:     to.Title,
		ExternalID:       d.ExternalID,
		ExternalStatusID: to.ExternalStatusID,
		Status:           string(d.Status),
		MovedAt:          b.now(),
	}
	if err := b.publisher.PublishDealMoved(ctx, event); err != nil {
		// O movimento já está no quadro; a fila é só notificação.
		log.Printf("⚠️ Negócio %s movido, mas falha na fila: %v", d.ID, err)
	}
}

// RemoveStage tira a etapa do quadro. Com reassignTo os negócios vão para ela,
// sem reassignTo os negócios da etapa são descartados.
func (b *DealBoard) RemoveStage(stageID, reassignTo string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	deals := make([]entity.Deal, 0, len(b.deals))
	for _, d := range b.deals {
		if d.StageID == stageID {
			if reassignTo == "" {
				continue
			}
			d.StageID = reassignTo
		}
		deals = append(deals, d)
	}
	stages := slices.DeleteFunc(slices.Clone(b.stages), func(s entity.Stage) bool { return s.ID == stageID })

	b.deals = deals
	b.stages = stages
}
