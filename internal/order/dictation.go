package order

import (
	"fmt"
	"strings"

	"coffebless/internal/models"
)

// DictationLine is one item as read to the cashier.
type DictationLine struct {
	Text   string
	Amount string
	Detail string
}

// DictationGroup is one category block of the dictation.
type DictationGroup struct {
	Category string
	Lines    []DictationLine
}

// Dictation is the "read it to the cashier" view of an order.
type Dictation struct {
	Intro  string
	Groups []DictationGroup
	Total  string
}

// NewDictation builds the summary page model.
func NewDictation(items []models.CartItem) Dictation {
	d := Dictation{
		Intro: fmt.Sprintf("Hola, llevo %d cosas:", models.ItemCount(items)),
		Total: "$" + FormatCLP(models.LinesTotal(items)),
	}
	for _, g := range GroupByCategory(items) {
		dg := DictationGroup{Category: g.Category}
		for _, it := range g.Items {
			text := fmt.Sprintf("%dx %s", it.Quantity, it.Product.Name)
			if it.Size != models.SizeNone {
				text += fmt.Sprintf(" (%s)", it.Size)
			}
			dg.Lines = append(dg.Lines, DictationLine{
				Text:   text,
				Amount: "$" + FormatCLP(it.LineTotal()),
				Detail: CustomizationDetail(it),
			})
		}
		d.Groups = append(d.Groups, dg)
	}
	return d
}

// DictationLines flattens the dictation into plain text lines.
func DictationLines(items []models.CartItem) []string {
	d := NewDictation(items)
	lines := []string{d.Intro}
	for _, g := range d.Groups {
		lines = append(lines, strings.ToUpper(g.Category))
		for _, l := range g.Lines {
			lines = append(lines, "  "+l.Text+" "+l.Amount)
			if l.Detail != "" {
				lines = append(lines, "    "+l.Detail)
			}
		}
	}
	lines = append(lines, "Total estimado "+d.Total)
	return lines
}
