package repository

import "autoloan-agent/domain"

// LenderRepository exposes the read-only lender catalog.
type LenderRepository interface {
	All() []domain.LenderProduct
	Active() []domain.LenderProduct
	GetByID(id string) (domain.LenderProduct, bool)
}
