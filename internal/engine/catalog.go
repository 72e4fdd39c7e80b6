package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Service is one immutable catalog entry. The catalog is loaded once at
// startup and read-only afterwards.
type Service struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	Price           Price  `json:"price"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// Price accepts either a number or a pre-formatted display string in the
// catalog JSON and always renders as display text.
type Price struct {
	display string
}

func PriceFromValue(v float64) Price {
	return Price{display: fmt.Sprintf("R$ %.2f", v)}
}

func PriceFromText(s string) Price {
	return Price{display: s}
}

func (p Price) String() string { return p.display }

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.display)
}

func (p *Price) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		p.display = fmt.Sprintf("R$ %.2f", n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("engine: invalid price: %w", err)
	}
	p.display = s
	return nil
}

// categoryOrder fixes the display order of the rendered listing. Used only
// for formatting, never for matching.
var categoryOrder = []string{
	"Depilação",
	"Estética Facial",
	"Cílios & Sobrancelhas",
	"Design na Linha",
	"Tratamentos Corporais",
	"Nail Designer",
	"Manicure & Pedicure",
}

var categoryEmojis = map[string]string{
	"Depilação":             "✨",
	"Estética Facial":       "💆‍♀️",
	"Cílios & Sobrancelhas": "👁️",
	"Design na Linha":       "✂️",
	"Tratamentos Corporais": "💎",
	"Nail Designer":         "💅",
	"Manicure & Pedicure":   "🌸",
}

// Catalog holds the ordered service list plus the normalized names used by
// the matcher.
type Catalog struct {
	services   []Service
	normalized []string
}

// NewCatalog builds a catalog from an ordered service list. Services without
// a duration default to a single 30-minute slot.
func NewCatalog(services []Service) *Catalog {
	c := &Catalog{
		services:   make([]Service, len(services)),
		normalized: make([]string, len(services)),
	}
	copy(c.services, services)
	for i := range c.services {
		if c.services[i].DurationMinutes <= 0 {
			c.services[i].DurationMinutes = 30
		}
		c.normalized[i] = Normalize(c.services[i].Name)
	}
	return c
}

// LoadCatalog reads a price-list JSON file of the form {"services": [...]}.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("engine: read price list: %w", err)
	}
	var file struct {
		Services []Service `json:"services"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("engine: parse price list: %w", err)
	}
	if len(file.Services) == 0 {
		return nil, fmt.Errorf("engine: price list %s has no services", path)
	}
	return NewCatalog(file.Services), nil
}

// DefaultCatalog returns the built-in service list, used when no price-list
// file is configured.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Service{
		{Name: "Buço", Category: "Depilação", Price: PriceFromValue(20)},
		{Name: "Axila", Category: "Depilação", Price: PriceFromValue(25)},
		{Name: "Perna Completa", Category: "Depilação", Price: PriceFromValue(60), DurationMinutes: 60},
		{Name: "Limpeza de Pele", Category: "Estética Facial", Price: PriceFromValue(90), DurationMinutes: 60},
		{Name: "Microagulhamento", Category: "Estética Facial", Price: PriceFromValue(150), DurationMinutes: 60},
		{Name: "Sobrancelha", Category: "Cílios & Sobrancelhas", Price: PriceFromValue(45)},
		{Name: "Extensão de Cílios", Category: "Cílios & Sobrancelhas", Price: PriceFromValue(130), DurationMinutes: 90},
		{Name: "Design na Linha", Category: "Design na Linha", Price: PriceFromValue(35)},
		{Name: "Drenagem Linfática", Category: "Tratamentos Corporais", Price: PriceFromValue(80), DurationMinutes: 60},
		{Name: "Alongamento em Gel", Category: "Nail Designer", Price: PriceFromText("a partir de R$ 120,00"), DurationMinutes: 90},
		{Name: "Manicure", Category: "Manicure & Pedicure", Price: PriceFromValue(30)},
		{Name: "Pedicure", Category: "Manicure & Pedicure", Price: PriceFromValue(35)},
	})
}

// Services returns the catalog in declared order.
func (c *Catalog) Services() []Service {
	return c.services
}

// Duration returns the duration in minutes for a service name, defaulting to
// one 30-minute slot for unknown names.
func (c *Catalog) Duration(name string) int {
	for _, s := range c.services {
		if s.Name == name {
			return s.DurationMinutes
		}
	}
	return 30
}

// Match resolves an utterance to a catalog entry. A purely numeric input is
// a 1-based ordinal into the declared order, and ordinal resolution wins over
// name search. Otherwise the first service whose normalized name occurs in
// the normalized input matches.
func (c *Catalog) Match(text string) *Service {
	text = Normalize(text)

	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(c.services) {
			return &c.services[n-1]
		}
		return nil
	}

	for i, name := range c.normalized {
		if strings.Contains(text, name) {
			return &c.services[i]
		}
	}
	return nil
}

// Render formats the catalog grouped by category in the fixed display order,
// numbering services by their declared (matching) order.
func (c *Catalog) Render() string {
	byCategory := make(map[string][]int)
	for i, s := range c.services {
		cat := s.Category
		if cat == "" {
			cat = "Outros"
		}
		byCategory[cat] = append(byCategory[cat], i)
	}

	order := make([]string, 0, len(byCategory))
	seen := make(map[string]bool)
	for _, cat := range categoryOrder {
		if _, ok := byCategory[cat]; ok {
			order = append(order, cat)
			seen[cat] = true
		}
	}
	// Categories outside the fixed table go last, in first-seen order.
	for _, s := range c.services {
		cat := s.Category
		if cat == "" {
			cat = "Outros"
		}
		if !seen[cat] {
			order = append(order, cat)
			seen[cat] = true
		}
	}

	var b strings.Builder
	for _, cat := range order {
		emoji := categoryEmojis[cat]
		if emoji == "" {
			emoji = "✨"
		}
		fmt.Fprintf(&b, "\n%s *%s*\n", emoji, strings.ToUpper(cat))
		for _, idx := range byCategory[cat] {
			s := c.services[idx]
			fmt.Fprintf(&b, "%d. %s — %s\n", idx+1, s.Name, s.Price)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
