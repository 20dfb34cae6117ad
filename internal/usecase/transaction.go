package usecase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Saga executa passos em sequência. Se um passo falha, os undo dos passos
// que já terminaram rodam em ordem inversa; o passo que falhou não é desfeito.
type Saga struct {
	name  string
	steps []sagaStep
}

type sagaStep struct {
	name string
	do   func(context.Context) error
	undo func(context.Context) error
}

func NewSaga(name string) *Saga {
	return &Saga{name: name}
}

// Step registra um passo. undo pode ser nil quando não há o que desfazer.
func (s *Saga) Step(name string, do, undo func(context.Context) error) *Saga {
	s.steps = append(s.steps, sagaStep{name: name, do: do, undo: undo})
	return s
}

func (s *Saga) Run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.do(ctx); err != nil {
			s.compensate(ctx, i)
			return fmt.Errorf("%s: passo %q falhou: %w", s.name, step.name, err)
		}
	}
	return nil
}

func (s *Saga) compensate(ctx context.Context, failed int) {
	for i := failed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.undo == nil {
			continue
		}
		if err := step.undo(ctx); err != nil {
			// Estado pode ter ficado inconsistente: precisa de correção manual.
			log.WithFields(log.Fields{
				"saga": s.name,
				"step": step.name,
			}).Errorf("⚠️ compensação falhou: %v", err)
		}
	}
}
