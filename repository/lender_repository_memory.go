package repository

import "autoloan-agent/domain"

// LenderRepositoryMemory is an in-memory implementation of LenderRepository.
// The catalog is copied on construction and never mutated afterwards.
type LenderRepositoryMemory struct {
	data []domain.LenderProduct
}

// NewLenderRepositoryMemory creates a catalog from the given products.
func NewLenderRepositoryMemory(products []domain.LenderProduct) *LenderRepositoryMemory {
	data := make([]domain.LenderProduct, len(products))
	for i, p := range products {
		data[i] = cloneProduct(p)
	}
	return &LenderRepositoryMemory{data: data}
}

// NewDefaultLenderRepository creates the repository with the built-in panel.
func NewDefaultLenderRepository() *LenderRepositoryMemory {
	return NewLenderRepositoryMemory(DefaultLenderCatalog())
}

// All returns every product, active or not, in catalog order.
func (r *LenderRepositoryMemory) All() []domain.LenderProduct {
	out := make([]domain.LenderProduct, len(r.data))
	for i, p := range r.data {
		out[i] = cloneProduct(p)
	}
	return out
}

// Active returns active products in catalog order.
func (r *LenderRepositoryMemory) Active() []domain.LenderProduct {
	out := make([]domain.LenderProduct, 0, len(r.data))
	for _, p := range r.data {
		if p.IsActive {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

func (r *LenderRepositoryMemory) GetByID(id string) (domain.LenderProduct, bool) {
	for _, p := range r.data {
		if p.ID == id {
			return cloneProduct(p), true
		}
	}
	return domain.LenderProduct{}, false
}

func cloneProduct(p domain.LenderProduct) domain.LenderProduct {
	p.AcceptedEmploymentTypes = append([]string(nil), p.AcceptedEmploymentTypes...)
	p.LoanTermsMonths = append([]int(nil), p.LoanTermsMonths...)
	p.SpecialPrograms = append([]string(nil), p.SpecialPrograms...)
	return p
}
