package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"gopkg.in/yaml.v3"
)

// PriceList is a supplier document. Both YAML and JSON encodings are accepted.
type PriceList struct {
	Shop       string              `yaml:"shop"`
	Categories []PriceListCategory `yaml:"categories"`
	Goods      []PriceListGood     `yaml:"goods"`
}

// PriceListCategory is a supplier-numbered category
type PriceListCategory struct {
	ID   uint64 `yaml:"id"`
	Name string `yaml:"name"`
}

// PriceListGood is one offer of the supplier
type PriceListGood struct {
	ID         uint64            `yaml:"id"`
	Category   uint64            `yaml:"category"`
	Model      string            `yaml:"model"`
	Name       string            `yaml:"name"`
	Price      string            `yaml:"price"`
	PriceRRC   string            `yaml:"price_rrc"`
	Quantity   uint64            `yaml:"quantity"`
	Parameters map[string]string `yaml:"parameters"`

	price    decimal.Decimal
	priceRRC decimal.Decimal
}

// ParameterNames returns the parameter names in a stable order
func (g *PriceListGood) ParameterNames() []string {
	names := make([]string, 0, len(g.Parameters))
	for name := range g.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PriceListFetcher downloads a supplier document.
type PriceListFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPFetcher downloads price lists with the fiber HTTP client.
type HTTPFetcher struct {
	Timeout time.Duration
}

// Fetch returns the body of a successful GET of rawURL. The request gives up at
// the earlier of Timeout and the deadline of ctx, or when ctx is cancelled.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrFetchFailed, err)
	}
	timeout := f.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Get(rawURL)
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	agent.MaxRedirectsCount(5)

	type response struct {
		code int
		body []byte
		errs []error
	}
	done := make(chan response, 1)
	go func() {
		code, body, errs := agent.Bytes()
		done <- response{code, body, errs}
	}()

	var res response
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", types.ErrFetchFailed, ctx.Err())
	}
	if len(res.errs) > 0 {
		return nil, fmt.Errorf("%w: %v", types.ErrFetchFailed, errors.Join(res.errs...))
	}
	if res.code < fiber.StatusOK || res.code >= fiber.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s responded with status %d", types.ErrFetchFailed, rawURL, res.code)
	}
	return res.body, nil
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || u.Hostname() == "" {
		return types.NewValidationError("url", "Enter a valid URL.")
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	}
	return types.NewValidationError("url", "Enter a valid URL.")
}

// DecodePriceList parses and validates a supplier document.
func DecodePriceList(data []byte) (*PriceList, error) {
	var doc PriceList
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrFetchFailed, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

var tooLarge = fmt.Sprintf("Ensure this value is less than or equal to %d.", models.MaxPositiveInt)

// maxPrice is the first value that does not fit a decimal(12,2) column
var maxPrice = decimal.New(1, 10)

// Validate checks required fields and ranges, and parses prices.
func (p *PriceList) Validate() error {
	verr := &types.ValidationError{}

	p.Shop = strings.TrimSpace(p.Shop)
	if p.Shop == "" {
		verr.Add("shop", "This field is required.")
	}

	for i, c := range p.Categories {
		field := fmt.Sprintf("categories[%d]", i)
		if c.ID == 0 {
			verr.Add(field+".id", "This field is required.")
		} else if c.ID > models.MaxPositiveInt {
			verr.Add(field+".id", tooLarge)
		}
		if strings.TrimSpace(c.Name) == "" {
			verr.Add(field+".name", "This field is required.")
		}
	}

	for i := range p.Goods {
		g := &p.Goods[i]
		field := fmt.Sprintf("goods[%d]", i)
		if strings.TrimSpace(g.Name) == "" {
			verr.Add(field+".name", "This field is required.")
		}
		if g.ID > models.MaxPositiveInt {
			verr.Add(field+".id", tooLarge)
		}
		if g.Category == 0 {
			verr.Add(field+".category", "This field is required.")
		} else if g.Category > models.MaxPositiveInt {
			verr.Add(field+".category", tooLarge)
		}
		if g.Quantity > models.MaxPositiveInt {
			verr.Add(field+".quantity", tooLarge)
		}
		var err error
		if g.price, err = parsePrice(g.Price); err != nil {
			verr.Add(field+".price", err.Error())
		}
		if g.priceRRC, err = parsePrice(g.PriceRRC); err != nil {
			verr.Add(field+".price_rrc", err.Error())
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

func parsePrice(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, errors.New("This field is required.")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errors.New("A valid number is required.")
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("Ensure this value is greater than or equal to 0.")
	}
	if d.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, errors.New("Ensure that there are no more than 12 digits in total.")
	}
	return d, nil
}
