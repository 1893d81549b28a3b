package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dominolu/dex-opinion/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// CycleDone imprime una línea compacta por ciclo terminado.
func (c *Console) CycleDone(_ context.Context, rec domain.CycleRecord) error {
	now := time.Now().Format("15:04:05")
	if rec.Failed() {
		fmt.Fprintf(c.out, "[%s] cycle #%d %s FAILED after %s: %s\n",
			now, rec.Number, rec.Strategy, fmtDur(rec.Duration), rec.Err)
		return nil
	}
	fmt.Fprintf(c.out, "[%s] cycle #%d %s ok in %s (entered:%s filled:%s exited:%s)\n",
		now, rec.Number, rec.Strategy, fmtDur(rec.Duration),
		yesNo(rec.Entered), yesNo(rec.Filled), yesNo(rec.Exited))
	return nil
}

// SessionDone imprime el resumen de la sesión.
func (c *Console) SessionDone(_ context.Context, cycles []domain.CycleRecord) error {
	ok, failed := countOutcomes(cycles)
	fmt.Fprintf(c.out, "\nsession finished — %d cycles (%d ok, %d failed)\n",
		len(cycles), ok, failed)

	if !c.table || len(cycles) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Strategy", "Started", "Duration", "Entered", "Filled", "Exited", "Result")

	for _, rec := range cycles {
		result := "ok"
		if rec.Failed() {
			result = compactErr(rec.Err, 40)
		}
		table.Append(
			fmt.Sprintf("%d", rec.Number),
			string(rec.Strategy),
			rec.StartedAt.Format("15:04:05"),
			fmtDur(rec.Duration),
			yesNo(rec.Entered),
			yesNo(rec.Filled),
			yesNo(rec.Exited),
			result,
		)
	}

	table.Render()
	return nil
}

func countOutcomes(cycles []domain.CycleRecord) (ok, failed int) {
	for _, rec := range cycles {
		if rec.Failed() {
			failed++
		} else {
			ok++
		}
	}
	return ok, failed
}

func fmtDur(d time.Duration) string {
	return d.Round(100 * time.Millisecond).String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func compactErr(msg string, max int) string {
	if len(msg) <= max {
		return msg
	}
	return msg[:max-1] + "…"
}
