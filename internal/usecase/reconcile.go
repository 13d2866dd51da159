package usecase

import (
	"context"
	"log"
)

type ReconcileUseCase struct {
	Recipients RecipientRepository
}

func NewReconcileUseCase(recipients RecipientRepository) *ReconcileUseCase {
	return &ReconcileUseCase{Recipients: recipients}
}

// ReconcileDeliveries promove para sent quem continua pending apesar de ter um
// evento sent mais novo que o último sent_at: o transporte entregou, mas a
// atualização de status falhou.
func (uc *ReconcileUseCase) ReconcileDeliveries(ctx context.Context) (int64, error) {
	n, err := uc.Recipients.ReconcilePending(ctx)
	if err != nil {
		return 0, &TechnicalError{Code: "DB_ERROR", Message: "erro ao reconciliar envios", Err: err}
	}
	if n > 0 {
		log.Printf("🩹 [RECONCILE] %d destinatários promovidos para sent", n)
	}
	return n, nil
}
