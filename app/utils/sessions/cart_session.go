package sessions

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Rakhulsr/sho-storefront/app/models"
)

var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// CartLine is one cart entry, keyed by color id.
type CartLine struct {
	Key       string          `json:"key"`
	ProductID string          `json:"product_id"`
	ColorID   string          `json:"color_id"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Price     decimal.Decimal `json:"price"`
	Qty       int             `json:"qty"`
	Image     string          `json:"image"`
	Seq       int64           `json:"seq"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Cart is the per-session selection. It is stored outside the cookie and
// written back by the session middleware whenever Modified reports true.
type Cart struct {
	ID      string               `json:"id"`
	Lines   map[string]*CartLine `json:"lines"`
	NextSeq int64                `json:"next_seq"`

	modified bool
}

func NewCart(id string) *Cart {
	return &Cart{ID: id, Lines: make(map[string]*CartLine)}
}

func (c *Cart) ensure() {
	if c.Lines == nil {
		c.Lines = make(map[string]*CartLine)
	}
}

// Add accumulates qty onto the color's line, creating it with the product's
// current price and the color's first image when absent.
func (c *Cart) Add(product *models.Product, color *models.ProductColor, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	c.ensure()

	if line, ok := c.Lines[color.ID]; ok {
		line.Qty += qty
		c.modified = true
		return nil
	}

	c.NextSeq++
	c.Lines[color.ID] = &CartLine{
		Key:       color.ID,
		ProductID: product.ID,
		ColorID:   color.ID,
		Name:      product.Name,
		Color:     color.Color,
		Price:     product.Price,
		Qty:       qty,
		Image:     color.FirstImage(),
		Seq:       c.NextSeq,
	}
	c.modified = true
	return nil
}

func (c *Cart) Remove(key string) {
	if _, ok := c.Lines[key]; !ok {
		return
	}
	delete(c.Lines, key)
	c.modified = true
}

// UpdateQuantity sets the line quantity, never below 1. It reports false when
// the key is not in the cart.
func (c *Cart) UpdateQuantity(key string, qty int) (CartLine, bool) {
	line, ok := c.Lines[key]
	if !ok {
		return CartLine{}, false
	}
	if qty < 1 {
		qty = 1
	}
	line.Qty = qty
	c.modified = true
	return *line, true
}

func (c *Cart) Clear() {
	if len(c.Lines) == 0 {
		return
	}
	c.Lines = make(map[string]*CartLine)
	c.modified = true
}

func (c *Cart) Line(key string) (CartLine, bool) {
	line, ok := c.Lines[key]
	if !ok {
		return CartLine{}, false
	}
	return *line, true
}

// Items returns copies of the lines in insertion order.
func (c *Cart) Items() []CartLine {
	items := make([]CartLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, *line)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Seq < items[j].Seq })
	return items
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

func (c *Cart) Count() int {
	n := 0
	for _, line := range c.Lines {
		n += line.Qty
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Modified() bool {
	return c.modified
}

func (c *Cart) MarkSaved() {
	c.modified = false
}
