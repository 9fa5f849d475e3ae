package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Decision
// ---------------------------------------------------------------------------

// Action is what the reconciler does with one remote record
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// Decide maps the local lookup result and options to an action.
// existing is nil when no local product carries the record's SKU.
func Decide(existing *catalog.Product, opts integration.SyncOptions) Action {
	if existing != nil {
		if opts.UpdateExisting {
			return ActionUpdate
		}
		return ActionSkip
	}
	if opts.CreateNew {
		return ActionCreate
	}
	return ActionSkip
}

// ---------------------------------------------------------------------------
// ItemResult
// ---------------------------------------------------------------------------

// ItemOutcome is the result kind of reconciling one record
type ItemOutcome string

const (
	OutcomeCreated ItemOutcome = "created"
	OutcomeUpdated ItemOutcome = "updated"
	OutcomeSkipped ItemOutcome = "skipped"
	OutcomeFailed  ItemOutcome = "failed"
)

// ItemResult is the outcome of one record. Err is set only when Outcome is
// OutcomeFailed.
type ItemResult struct {
	ExternalID string
	SKU        string
	Outcome    ItemOutcome
	ProductID  uuid.UUID
	Err        error
}

// Failed reports whether the record could not be reconciled
func (r ItemResult) Failed() bool {
	return r.Outcome == OutcomeFailed
}

// Message formats the failure as "{sku}: {message}"
func (r ItemResult) Message() string {
	if r.Err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", r.SKU, r.Err.Error())
}

func failed(rec integration.RemoteProductRecord, err error) ItemResult {
	return ItemResult{ExternalID: rec.ExternalID, SKU: rec.SKU, Outcome: OutcomeFailed, Err: err}
}

// ---------------------------------------------------------------------------
// Reconciler
// ---------------------------------------------------------------------------

// Reconciler applies one remote record to the local catalog
type Reconciler struct {
	scope TransactionScope
	now   func() time.Time
}

// NewReconciler creates a Reconciler that writes through scope
func NewReconciler(scope TransactionScope) *Reconciler {
	return &Reconciler{scope: scope, now: time.Now}
}

// Apply looks up, mutates and maps one record. It never returns an error;
// failures come back as OutcomeFailed and leave the catalog unchanged when
// the scope is transactional.
func (r *Reconciler) Apply(ctx context.Context, rec integration.RemoteProductRecord, opts integration.SyncOptions) ItemResult {
	if !rec.HasSKU() && opts.BlankSKUPolicy == integration.BlankSKUSkip {
		return ItemResult{ExternalID: rec.ExternalID, SKU: rec.SKU, Outcome: OutcomeSkipped}
	}

	var result ItemResult
	err := r.scope.Execute(ctx, func(repos CatalogRepositories) error {
		existing, err := r.lookup(ctx, repos.Products(), rec)
		if err != nil {
			return err
		}

		var product *catalog.Product
		outcome := OutcomeSkipped
		switch Decide(existing, opts) {
		case ActionUpdate:
			if err := r.update(ctx, repos.Products(), existing, rec, opts); err != nil {
				return err
			}
			product, outcome = existing, OutcomeUpdated
		case ActionCreate:
			created, err := r.create(ctx, repos.Products(), rec, opts)
			if err != nil {
				return err
			}
			product, outcome = created, OutcomeCreated
		default:
			result = ItemResult{ExternalID: rec.ExternalID, SKU: rec.SKU, Outcome: OutcomeSkipped}
			return nil
		}

		if err := r.upsertMapping(ctx, repos.Mappings(), rec, product); err != nil {
			return err
		}
		result = ItemResult{ExternalID: rec.ExternalID, SKU: rec.SKU, Outcome: outcome, ProductID: product.ID}
		return nil
	})
	if err != nil {
		return failed(rec, err)
	}
	return result
}

// lookup returns nil without querying when the record has no SKU
func (r *Reconciler) lookup(ctx context.Context, products catalog.ProductStore, rec integration.RemoteProductRecord) (*catalog.Product, error) {
	if !rec.HasSKU() {
		return nil, nil
	}
	existing, err := products.FindBySKU(ctx, strings.TrimSpace(rec.SKU))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup failed: %w", err)
	}
	return existing, nil
}

func (r *Reconciler) update(
	ctx context.Context,
	products catalog.ProductStore,
	product *catalog.Product,
	rec integration.RemoteProductRecord,
	opts integration.SyncOptions,
) error {
	if opts.SyncStockOnly {
		product.SetStock(rec.Stock)
		if err := products.UpdateStock(ctx, product.ID, product.Stock); err != nil {
			return fmt.Errorf("stock update failed: %w", err)
		}
		return nil
	}

	product.UpdateDetails(detailsFrom(rec))
	if opts.ImportImages {
		product.ReplaceImages(rec.Images)
	}
	if err := products.Update(ctx, product); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return nil
}

func (r *Reconciler) create(
	ctx context.Context,
	products catalog.ProductStore,
	rec integration.RemoteProductRecord,
	opts integration.SyncOptions,
) (*catalog.Product, error) {
	product, err := catalog.NewProduct(rec.SKU, rec.Name)
	if err != nil {
		return nil, err
	}
	product.UpdateDetails(detailsFrom(rec))
	if opts.ImportImages {
		product.ReplaceImages(rec.Images)
	}
	if err := products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create failed: %w", err)
	}
	return product, nil
}

func (r *Reconciler) upsertMapping(
	ctx context.Context,
	mappings integration.MappingStore,
	rec integration.RemoteProductRecord,
	product *catalog.Product,
) error {
	mapping, err := integration.NewProductMapping(rec.ExternalID, product.ID, product.SKU, r.now())
	if err != nil {
		return err
	}
	if err := mappings.UpsertMapping(ctx, mapping); err != nil {
		return fmt.Errorf("mapping upsert failed: %w", err)
	}
	return nil
}

func detailsFrom(rec integration.RemoteProductRecord) catalog.ProductDetails {
	return catalog.ProductDetails{
		Description: rec.Description,
		Price:       parseDecimal(rec.Price),
		Stock:       rec.Stock,
		Weight:      parseDecimal(rec.Weight),
		Dimensions:  rec.Dimensions,
	}
}

// parseDecimal returns zero for blank or malformed input
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
