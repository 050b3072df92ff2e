package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PartnerService manages the master data the documents hang off: customers,
// vendors and projects.
type PartnerService struct {
	pool *pgxpool.Pool
}

func NewPartnerService(pool *pgxpool.Pool) *PartnerService {
	return &PartnerService{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateCustomer inserts a customer. Names are unique per company.
func (s *PartnerService) CreateCustomer(ctx context.Context, companyID int, name, phone string) (*Customer, error) {
	if name == "" {
		return nil, fmt.Errorf("customer name is required: %w", ErrInvalidArgument)
	}
	var phonePtr *string
	if phone != "" {
		phonePtr = &phone
	}

	c := &Customer{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (company_id, name, phone)
		VALUES ($1, $2, $3)
		RETURNING id, company_id, name, phone, credit_balance, created_at`,
		companyID, name, phonePtr,
	).Scan(&c.ID, &c.CompanyID, &c.Name, &c.Phone, &c.CreditBalance, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("customer %q already exists: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return c, nil
}

// GetCustomer returns a customer scoped to the company.
func (s *PartnerService) GetCustomer(ctx context.Context, companyID, customerID int) (*Customer, error) {
	c := &Customer{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, name, phone, credit_balance, created_at
		FROM customers
		WHERE id = $1 AND company_id = $2`,
		customerID, companyID,
	).Scan(&c.ID, &c.CompanyID, &c.Name, &c.Phone, &c.CreditBalance, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch customer %d: %w", customerID, err)
	}
	return c, nil
}

// ListCustomers returns all customers for a company, ordered by name.
func (s *PartnerService) ListCustomers(ctx context.Context, companyID int) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, name, phone, credit_balance, created_at
		FROM customers
		WHERE company_id = $1
		ORDER BY name`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Phone, &c.CreditBalance, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// CreateVendor inserts a vendor. Names are unique per company.
func (s *PartnerService) CreateVendor(ctx context.Context, companyID int, name, phone string) (*Vendor, error) {
	if name == "" {
		return nil, fmt.Errorf("vendor name is required: %w", ErrInvalidArgument)
	}
	var phonePtr *string
	if phone != "" {
		phonePtr = &phone
	}

	v := &Vendor{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO vendors (company_id, name, phone)
		VALUES ($1, $2, $3)
		RETURNING id, company_id, name, phone, created_at`,
		companyID, name, phonePtr,
	).Scan(&v.ID, &v.CompanyID, &v.Name, &v.Phone, &v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("vendor %q already exists: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("insert vendor: %w", err)
	}
	return v, nil
}

// ListVendors returns all vendors for a company, ordered by name.
func (s *PartnerService) ListVendors(ctx context.Context, companyID int) ([]Vendor, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, name, phone, created_at
		FROM vendors
		WHERE company_id = $1
		ORDER BY name`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Name, &v.Phone, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// CreateProject inserts a project with its remaining amount equal to the
// agreement amount.
func (s *PartnerService) CreateProject(ctx context.Context, companyID int, name string, agreementAmount decimal.Decimal) (*Project, error) {
	if name == "" {
		return nil, fmt.Errorf("project name is required: %w", ErrInvalidArgument)
	}
	if agreementAmount.IsNegative() {
		return nil, fmt.Errorf("agreement amount cannot be negative: %w", ErrInvalidArgument)
	}

	p := &Project{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO projects (company_id, name, agreement_amount, remaining_amount)
		VALUES ($1, $2, $3, $3)
		RETURNING id, company_id, name, agreement_amount, advance_paid, remaining_amount, created_at`,
		companyID, name, agreementAmount,
	).Scan(&p.ID, &p.CompanyID, &p.Name, &p.AgreementAmount, &p.AdvancePaid, &p.RemainingAmount, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// GetProject returns a project scoped to the company.
func (s *PartnerService) GetProject(ctx context.Context, companyID, projectID int) (*Project, error) {
	p := &Project{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, company_id, name, agreement_amount, advance_paid, remaining_amount, created_at
		FROM projects
		WHERE id = $1 AND company_id = $2`,
		projectID, companyID,
	).Scan(&p.ID, &p.CompanyID, &p.Name, &p.AgreementAmount, &p.AdvancePaid, &p.RemainingAmount, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch project %d: %w", projectID, err)
	}
	return p, nil
}

// ListProjects returns all projects for a company, ordered by name.
func (s *PartnerService) ListProjects(ctx context.Context, companyID int) ([]Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, name, agreement_amount, advance_paid, remaining_amount, created_at
		FROM projects
		WHERE company_id = $1
		ORDER BY name`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.AgreementAmount, &p.AdvancePaid,
			&p.RemainingAmount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
