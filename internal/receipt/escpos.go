package receipt

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// ESC/POS commands.
var (
	cmdInit         = []byte{0x1B, 0x40}
	cmdAlignLeft    = []byte{0x1B, 0x61, 0x00}
	cmdAlignCenter  = []byte{0x1B, 0x61, 0x01}
	cmdBoldOn       = []byte{0x1B, 0x45, 0x01}
	cmdBoldOff      = []byte{0x1B, 0x45, 0x00}
	cmdDoubleHeight = []byte{0x1D, 0x21, 0x01}
	cmdNormalSize   = []byte{0x1D, 0x21, 0x00}
	cmdFeed3        = []byte{0x1B, 0x64, 0x03}
	cmdCut          = []byte{0x1D, 0x56, 0x00}
)

type escpos struct {
	buf   bytes.Buffer
	width int
}

func (e *escpos) cmd(b []byte) { e.buf.Write(b) }

func (e *escpos) line(s string) {
	e.buf.WriteString(s)
	e.buf.WriteByte('\n')
}

// row puts left and right on one line, right aligned to the paper width.
func (e *escpos) row(left, right string) {
	gap := e.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		e.line(left)
		e.line(strings.Repeat(" ", max(0, e.width-utf8.RuneCountInString(right))) + right)
		return
	}
	e.line(left + strings.Repeat(" ", gap) + right)
}

func (e *escpos) rule() { e.line(strings.Repeat("-", e.width)) }

// EscPos renders r as a byte stream for a raw thermal printer. It starts
// with INIT and ends with a paper cut.
func EscPos(r *Receipt, store Store, p Printer) []byte {
	e := &escpos{width: p.Chars}

	e.cmd(cmdInit)
	e.cmd(cmdAlignCenter)
	e.cmd(cmdBoldOn)
	e.cmd(cmdDoubleHeight)
	e.line(store.Name)
	e.cmd(cmdNormalSize)
	e.line(r.Title)
	e.cmd(cmdBoldOff)
	if store.Address != "" {
		e.line(store.Address)
	}
	if store.Phone != "" {
		e.line(store.Phone)
	}

	e.cmd(cmdAlignLeft)
	e.rule()
	e.row("Sale No:", r.SaleNumber)
	e.row("Date:", r.Date.Format("02/01/2006 15:04"))
	e.row("Customer:", r.Customer)
	e.row("Cashier:", r.Cashier)
	e.rule()

	for _, it := range r.Items {
		e.line(it.Name)
		e.row("  "+Quantity(it.Quantity)+" x "+Money(it.UnitPrice), Money(it.Total))
	}
	if len(r.Packaging) > 0 {
		e.cmd(cmdBoldOn)
		e.line("PACKAGING:")
		e.cmd(cmdBoldOff)
		for _, it := range r.Packaging {
			e.line(it.Name + " (" + it.Status + ")")
			e.row("  "+Quantity(it.Quantity)+" x "+Money(it.UnitPrice), Money(it.Total))
		}
	}
	e.rule()

	e.row("Subtotal:", Money(r.Subtotal))
	e.row("Tax incl.:", Money(r.Tax))
	e.cmd(cmdBoldOn)
	e.row("TOTAL:", Money(r.Total))
	e.cmd(cmdBoldOff)
	if len(r.Packaging) > 0 {
		e.row("Packaging:", Money(r.PackagingTotal))
	}
	e.row("Paid:", Money(r.Paid))
	if r.HasBalance() {
		e.row("Remaining:", Money(r.Remaining))
		e.row("Due date:", r.DueDate.Format("02/01/2006"))
	}
	e.rule()

	e.cmd(cmdAlignCenter)
	e.line("Thank you!")
	e.line(r.PrintID)
	e.cmd(cmdFeed3)
	e.cmd(cmdCut)
	return e.buf.Bytes()
}
