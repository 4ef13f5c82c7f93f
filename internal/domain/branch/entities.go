package branch

import "errors"

var (
	ErrNotFound  = errors.New("branch not found")
	ErrCodeTaken = errors.New("branch code already exists")
	ErrInUse     = errors.New("branch still has users or loans")
)

type Branch struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Location string `json:"location"`
}

func (b Branch) Key() int64 { return b.ID }

func (b Branch) SearchFields() []string { return []string{b.Code, b.Location} }

type Request struct {
	Code     string `json:"code"     validate:"required,max=20"`
	Location string `json:"location" validate:"required,max=150"`
}
