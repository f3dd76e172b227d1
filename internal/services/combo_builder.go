package services

import (
	"errors"
	"fmt"

	"cozyoven/internal/domain"
)

var (
	ErrAlreadyBuilding = errors.New("a combo is already open")
	ErrNotBuilding     = errors.New("no combo is open")
	ErrUnknownOption   = errors.New("option is not available in this combo")
	ErrSelectionFull   = errors.New("this combo does not allow extra selections")
	ErrCannotCommit    = errors.New("not enough options selected")
	ErrCartSink        = errors.New("cart rejected combo line")
)

// CartSink receives the single line a committed combo produces.
type CartSink interface {
	AddLine(line domain.CartLine) error
}

type BuilderState int

const (
	Idle BuilderState = iota
	Building
)

func (s BuilderState) String() string {
	if s == Building {
		return "building"
	}
	return "idle"
}

// ComboBuilder tracks one customer's in-progress combo. It is not safe for concurrent use;
// each interaction gets its own builder.
type ComboBuilder struct {
	sink     CartSink
	state    BuilderState
	cfg      domain.ComboConfig
	selected []string
	quote    ComboQuote
}

func NewComboBuilder(sink CartSink) *ComboBuilder {
	return &ComboBuilder{sink: sink}
}

func (b *ComboBuilder) State() BuilderState { return b.state }

// Open starts building cfg with an empty selection.
func (b *ComboBuilder) Open(cfg domain.ComboConfig) error {
	if b.state == Building {
		return ErrAlreadyBuilding
	}
	b.state = Building
	b.cfg = cfg
	b.selected = nil
	b.quote = PriceCombo(cfg, nil)
	return nil
}

// Toggle adds optionID to the end of the selection, or removes it if already chosen.
// The quote is recomputed from the whole selection every time.
func (b *ComboBuilder) Toggle(optionID string) (ComboQuote, error) {
	if b.state != Building {
		return ComboQuote{}, ErrNotBuilding
	}
	for i, id := range b.selected {
		if id == optionID {
			b.selected = append(b.selected[:i:i], b.selected[i+1:]...)
			b.quote = PriceCombo(b.cfg, b.selected)
			return b.quote, nil
		}
	}
	o, ok := b.cfg.Option(optionID)
	if !ok || !o.IsActive {
		return b.quote, ErrUnknownOption
	}
	if !b.cfg.AllowExtras && len(b.selected) >= b.cfg.BaseSelectionCount {
		return b.quote, ErrSelectionFull
	}
	b.selected = append(b.selected, optionID)
	b.quote = PriceCombo(b.cfg, b.selected)
	return b.quote, nil
}

// Selected returns a copy of the current selection in pick order.
func (b *ComboBuilder) Selected() []string {
	return append([]string(nil), b.selected...)
}

func (b *ComboBuilder) Quote() ComboQuote { return b.quote }

func (b *ComboBuilder) CanCommit() bool {
	return b.state == Building && b.quote.CanCommit
}

// Cancel discards the selection. Cancelling while idle does nothing.
func (b *ComboBuilder) Cancel() {
	b.reset()
}

// Commit emits one cart line and returns to Idle. It is rejected without any change when
// CanCommit is false. A sink failure is returned wrapped in ErrCartSink, but the builder is
// already idle by then.
func (b *ComboBuilder) Commit() (domain.CartLine, error) {
	if b.state != Building {
		return domain.CartLine{}, ErrNotBuilding
	}
	if !b.quote.CanCommit {
		return domain.CartLine{}, ErrCannotCommit
	}
	line := ComboLine(b.cfg, b.quote)
	b.reset()

	if err := b.sink.AddLine(line); err != nil {
		return line, fmt.Errorf("%w: %v", ErrCartSink, err)
	}
	return line, nil
}

func (b *ComboBuilder) reset() {
	b.state = Idle
	b.cfg = domain.ComboConfig{}
	b.selected = nil
	b.quote = ComboQuote{}
}

// ComboLine turns a priced selection into the cart line the combo is sold as.
func ComboLine(cfg domain.ComboConfig, q ComboQuote) domain.CartLine {
	desc := cfg.Description
	if desc == "" {
		n := len(q.Lines)
		plural := ""
		if n != 1 {
			plural = "s"
		}
		desc = fmt.Sprintf("Custom combo with %d flavour%s.", n, plural)
	}
	sel := make([]domain.LineSelection, 0, len(q.Lines))
	for _, l := range q.Lines {
		s := domain.LineSelection{OptionID: l.Option.ID, Label: l.Option.Name, Included: l.Included}
		if !l.Included {
			s.PriceDelta = l.Option.Price
		}
		sel = append(sel, s)
	}
	return domain.CartLine{
		ProductID:   cfg.BaseProductID,
		Name:        cfg.Name,
		Price:       q.Total,
		Description: desc,
		Quantity:    1,
		Selections:  sel,
	}
}
