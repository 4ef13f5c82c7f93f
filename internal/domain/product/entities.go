package product

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Tenor        int             `json:"tenor"`
	InterestRate decimal.Decimal `json:"interestRate"`
}

func (p Product) Key() int64 { return p.ID }

func (p Product) SearchFields() []string {
	return []string{p.Name, p.Amount.String(), strconv.Itoa(p.Tenor), p.InterestRate.String()}
}

// Request is the create and update payload.
type Request struct {
	Name         string          `json:"name"         validate:"required,max=100"`
	Amount       decimal.Decimal `json:"amount"       validate:"gt=0"`
	Tenor        int             `json:"tenor"        validate:"required,gt=0,lte=360"`
	InterestRate decimal.Decimal `json:"interestRate" validate:"gte=0"`
}
