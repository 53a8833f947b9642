package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alejandrodnm/frcbot/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.BuyAction y ports.ListAction en modo dry-run:
// imprime la decisión en lugar de enviarla a la cadena.
type Console struct {
	out     io.Writer
	nodeURL string
}

// NewConsole crea un reporter que escribe a stdout.
func NewConsole(nodeURL string) *Console {
	return &Console{out: os.Stdout, nodeURL: nodeURL}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer, nodeURL string) *Console {
	return &Console{out: w, nodeURL: nodeURL}
}

// Buy imprime el listing elegible y la cuenta que lo compraría.
func (c *Console) Buy(_ context.Context, token string, buyer domain.Account, cand domain.BuyCandidate) error {
	fmt.Fprintf(c.out, "[%s] [buy] %s p%d#%d amount %s @ %s (floor %s) → %s via %s\n",
		time.Now().Format("15:04:05"),
		token,
		cand.Page, cand.Position,
		domain.FormatUnits(cand.Amount),
		domain.FormatUnits(cand.Price),
		domain.FormatUnits(cand.FloorPrice),
		shortAddr(buyer.Address),
		c.nodeURL,
	)
	return nil
}

// AddListings imprime el resumen del déficit que dispararía listings nuevos.
func (c *Console) AddListings(_ context.Context, token string, minter domain.Account, res domain.AggregationResult) error {
	fmt.Fprintf(c.out, "\n[%s] [list] supply below threshold for %s\n", time.Now().Format("15:04:05"), token)

	table := tablewriter.NewWriter(c.out)
	table.Header("Listings", "Pages", "Listed", "Threshold", "Missing", "Minter")
	table.Append(
		fmt.Sprintf("%d", res.TotalCount),
		fmt.Sprintf("%d", res.Pages),
		domain.FormatUnits(res.TotalAmount),
		domain.FormatUnits(res.Threshold),
		domain.FormatUnits(missing(res)),
		shortAddr(minter.Address),
	)
	table.Render()
	return nil
}

// missing devuelve cuánto falta para llegar al umbral.
func missing(res domain.AggregationResult) uint64 {
	if !res.Deficit {
		return 0
	}
	return res.Threshold - res.TotalAmount
}

// shortAddr acorta una dirección para la consola.
func shortAddr(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-6:]
}
