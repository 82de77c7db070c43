package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/retail-ledger/internal/domain/entity"
	"github.com/jhoicas/retail-ledger/internal/domain/repository"
)

// Módulos que emiten actividad.
const (
	ModuleInventory  = "inventory"
	ModuleSales      = "sales"
	ModulePurchasing = "purchasing"
	ModuleCatalog    = "catalog"
)

// Logger recibe entradas de actividad después del commit. Nunca devuelve error:
// la entrega es un efecto secundario que no afecta el resultado de la operación.
type Logger interface {
	Record(ctx context.Context, entry entity.ActivityLog)
}

// Sink destino concreto del registro de actividad (tabla, stream de Redis, memoria).
type Sink interface {
	Write(ctx context.Context, entry *entity.ActivityLog) error
}

// Nop descarta todas las entradas.
type Nop struct{}

// Record implementa Logger.
func (Nop) Record(context.Context, entity.ActivityLog) {}

// Dispatcher reparte cada entrada a todos los sinks en una goroutine propia.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
	wait    bool
	pending sync.WaitGroup
}

// NewDispatcher construye el dispatcher. timeout acota cada escritura.
func NewDispatcher(log zerolog.Logger, timeout time.Duration, sinks ...Sink) *Dispatcher {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Dispatcher{sinks: sinks, timeout: timeout, log: log, now: time.Now}
}

// Synchronous hace que Record espere a que todos los sinks terminen. Lo usan los tests y
// herramientas de línea de comandos que leen la actividad inmediatamente después de escribirla;
// el servidor usa el modo asíncrono.
func (d *Dispatcher) Synchronous() *Dispatcher {
	d.wait = true
	return d
}

// Record completa ID, severidad y fecha y entrega la entrada. Los fallos de un sink se
// registran con zerolog y no se propagan.
func (d *Dispatcher) Record(ctx context.Context, entry entity.ActivityLog) {
	if len(d.sinks) == 0 {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Severity == "" {
		entry.Severity = entity.SeverityInfo
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = d.now()
	}
	// La petición puede terminar antes que la entrega.
	base := context.WithoutCancel(ctx)
	deliver := func() {
		for _, sink := range d.sinks {
			wctx, cancel := context.WithTimeout(base, d.timeout)
			e := entry
			if err := sink.Write(wctx, &e); err != nil {
				d.log.Warn().Err(err).
					Str("module", entry.Module).
					Str("action", entry.Action).
					Msg("audit: no se pudo registrar la actividad")
			}
			cancel()
		}
	}
	if d.wait {
		deliver()
		return
	}
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		deliver()
	}()
}

// Drain espera las entregas en curso. Se llama en el apagado antes de cerrar los sinks;
// si ctx vence antes, devuelve ctx.Err() y las entregas restantes se abandonan.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RepositorySink adapta un ActivityLogRepository como Sink.
type RepositorySink struct {
	Repo repository.ActivityLogRepository
}

// Write implementa Sink.
func (s RepositorySink) Write(ctx context.Context, entry *entity.ActivityLog) error {
	return s.Repo.Create(ctx, entry)
}
