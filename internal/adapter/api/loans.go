package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"staff-portal/internal/domain/loan"
)

// Approvals is the reviewer workplace API.
type Approvals struct{ c *Client }

func (c *Client) Approvals() *Approvals { return &Approvals{c: c} }

func (a *Approvals) Pending(ctx context.Context) ([]loan.Loan, error) {
	var out []loan.Loan
	if err := a.c.get(ctx, "/approval/pending", &out); err != nil {
		return nil, fmt.Errorf("listing pending loans: %w", err)
	}
	return out, nil
}

func (a *Approvals) MyHistory(ctx context.Context) ([]loan.ApprovalHistoryItem, error) {
	var out []loan.ApprovalHistoryItem
	if err := a.c.get(ctx, "/approval/my-history", &out); err != nil {
		return nil, fmt.Errorf("listing approval history: %w", err)
	}
	return out, nil
}

func (a *Approvals) Get(ctx context.Context, id int64) (*loan.Loan, error) {
	var out loan.Loan
	if err := a.c.get(ctx, idPath("/loans/%s", id), &out); err != nil {
		return nil, fmt.Errorf("getting loan %d: %w", id, err)
	}
	return &out, nil
}

func (a *Approvals) History(ctx context.Context, id int64) ([]loan.History, error) {
	var out []loan.History
	if err := a.c.get(ctx, idPath("/loans/%s/history", id), &out); err != nil {
		return nil, fmt.Errorf("getting history of loan %d: %w", id, err)
	}
	return out, nil
}

func (a *Approvals) Approve(ctx context.Context, id int64, req loan.ApprovalRequest) (*loan.Loan, error) {
	var out loan.Loan
	if err := a.c.post(ctx, idPath("/approval/%s/approve", id), req, &out); err != nil {
		return nil, fmt.Errorf("approving loan %d: %w", id, err)
	}
	return &out, nil
}

func (a *Approvals) Reject(ctx context.Context, id int64, req loan.ApprovalRequest) (*loan.Loan, error) {
	var out loan.Loan
	if err := a.c.post(ctx, idPath("/approval/%s/reject", id), req, &out); err != nil {
		return nil, fmt.Errorf("rejecting loan %d: %w", id, err)
	}
	return &out, nil
}

// AdminLoans is the back-office oversight API.
type AdminLoans struct{ c *Client }

func (c *Client) AdminLoans() *AdminLoans { return &AdminLoans{c: c} }

func (a *AdminLoans) List(ctx context.Context) ([]loan.Loan, error) {
	var out []loan.Loan
	if err := a.c.get(ctx, "/admin/loans", &out); err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	return out, nil
}

func (a *AdminLoans) Get(ctx context.Context, id int64) (*loan.Loan, error) {
	var out loan.Loan
	if err := a.c.get(ctx, idPath("/admin/loans/%s", id), &out); err != nil {
		return nil, fmt.Errorf("getting loan %d: %w", id, err)
	}
	return &out, nil
}

func (a *AdminLoans) History(ctx context.Context, id int64) ([]loan.History, error) {
	var out []loan.History
	if err := a.c.get(ctx, idPath("/admin/loans/%s/history", id), &out); err != nil {
		return nil, fmt.Errorf("getting history of loan %d: %w", id, err)
	}
	return out, nil
}

// Download fetches a customer document as raw bytes. ref may be absolute or
// relative to the API base URL.
func (a *AdminLoans) Download(ctx context.Context, ref string) (*loan.Document, error) {
	target, err := a.c.resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("downloading %q: %w", ref, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("downloading %q: %w", ref, err)
	}
	raw, resp, err := a.c.send(req, "/documents")
	if err != nil {
		return nil, fmt.Errorf("downloading %q: %w", ref, err)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(raw)
	}
	return &loan.Document{ContentType: ct, Data: raw}, nil
}

func (c *Client) resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty document reference")
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", err
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}

var (
	_ loan.ApprovalGateway = (*Approvals)(nil)
	_ loan.AdminGateway    = (*AdminLoans)(nil)
)
