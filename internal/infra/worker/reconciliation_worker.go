package worker

import (
	"context"
	"log"
	"time"
)

// Reconciler repara destinatários que ficaram pendentes apesar de já terem
// um evento de envio gravado.
type Reconciler interface {
	ReconcileDeliveries(ctx context.Context) (int64, error)
}

type ReconciliationWorker struct {
	reconciler   Reconciler
	tickInterval time.Duration
}

func NewReconciliationWorker(r Reconciler, interval time.Duration) *ReconciliationWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ReconciliationWorker{
		reconciler:   r,
		tickInterval: interval,
	}
}

func (w *ReconciliationWorker) Start(ctx context.Context) {
	log.Printf("🕒 Reconciliation Worker iniciado (intervalo %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.reconcile(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Reconciliation Worker encerrado")
			return
		case <-ticker.C:
			w.reconcile(ctx)
		}
	}
}

func (w *ReconciliationWorker) reconcile(ctx context.Context) {
	n, err := w.reconciler.ReconcileDeliveries(ctx)
	if err != nil {
		log.Printf("❌ Erro na reconciliação de envios: %v", err)
		return
	}
	if n > 0 {
		log.Printf("✅ %d destinatário(s) reconciliados para 'sent'", n)
	}
}
