package reconcile

import (
	"fmt"
	"strings"
	"time"

	"seed-catalog/core/dbctx"
	"seed-catalog/core/reconcile"
	"seed-catalog/feature/catalog/codec"
	"seed-catalog/feature/catalog/models"

	"go.uber.org/zap"
)

// Date layouts accepted for New Until; the first one is used for output.
var dateLayouts = []string{"01/02/2006", "2006-01-02", "1/2/2006"}

// DateLayout is how New Until dates are rendered.
const DateLayout = "01/02/2006"

func sameID[T any](id func(*T) uint) func(a, b *T) bool {
	return func(a, b *T) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return id(a) == id(b)
	}
}

func isNil[T any](v *T) bool { return v == nil }

// thumbnailField binds a staged thumbnail filename to an entity's image.
// The image row is resolved before diffing so Set cannot fail.
func (d *Driver) thumbnailField(dc dbctx.Context, em Emitter, kind, entity string, staged *string, id **uint, img **models.Image) (reconcile.Field[string], error) {
	current := func() string {
		if *img == nil {
			return ""
		}
		return (*img).Filename
	}
	f := reconcile.Field[string]{
		Label: "Thumbnail",
		Get:   current,
		Equal: func(a, b string) bool { return a == b },
	}
	if staged == nil {
		return f, nil
	}
	f.Present = true
	f.Staged = strings.TrimSpace(*staged)

	var resolved *models.Image
	if f.Staged != "" && f.Staged != current() {
		var err error
		if resolved, err = d.resolver.Image(dc, f.Staged); err != nil {
			return f, err
		}
		d.checkThumbnail(dc, em, kind, entity, f.Staged)
	}
	f.Set = func(string) {
		*img = resolved
		if resolved == nil {
			*id = nil
			return
		}
		imageID := resolved.ID
		*id = &imageID
	}
	return f, nil
}

// checkThumbnail warns when a referenced thumbnail is missing from storage.
func (d *Driver) checkThumbnail(dc dbctx.Context, em Emitter, kind, entity, filename string) {
	if d.thumbnails == nil {
		return
	}
	ok, err := d.thumbnails.ThumbnailExists(dc.Ctx, filename)
	if err != nil {
		d.logger.Warn("Failed to check thumbnail", zap.String("filename", filename), zap.Error(err))
		return
	}
	if !ok {
		em.Emit(reconcile.Warning(kind, entity,
			fmt.Sprintf("The thumbnail '%s' for '%s' was not found in storage.", filename, entity)))
	}
}

// parseDate parses a New Until value; empty means no date.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, reconcile.NewFormatError("new_until", s, "expected a date like 12/31/2025")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// dateField binds a staged New Until date. Dates compare by calendar day.
func dateField(label string, staged *string, target **time.Time) (reconcile.Field[*time.Time], error) {
	f := reconcile.Field[*time.Time]{
		Label:   label,
		Get:     func() *time.Time { return *target },
		Set:     func(v *time.Time) { *target = v },
		Format:  formatDate,
		IsEmpty: isNil[time.Time],
	}
	if staged == nil {
		return f, nil
	}
	t, err := parseDate(*staged)
	if err != nil {
		return f, err
	}
	f.Present = true
	f.Staged = t
	return f, nil
}

// positionField binds a staged series position.
func positionField(staged *string, target *models.Position) reconcile.Field[models.Position] {
	f := reconcile.Field[models.Position]{
		Label:   "Position",
		Get:     func() models.Position { return *target },
		Set:     func(v models.Position) { *target = v },
		Equal:   func(a, b models.Position) bool { return a == b },
		IsEmpty: func(models.Position) bool { return false },
	}
	if staged != nil {
		f.Present = true
		f.Staged = models.ParsePosition(strings.TrimSpace(*staged))
	}
	return f
}

// priceField compares prices by their cent value.
func priceField(staged codec.Price, target *codec.Price) reconcile.Field[codec.Price] {
	return reconcile.Field[codec.Price]{
		Label:   "Price",
		Staged:  staged,
		Present: true,
		Get:     func() codec.Price { return *target },
		Set:     func(v codec.Price) { *target = v },
		Equal:   func(a, b codec.Price) bool { return a == b },
		Format:  codec.Price.Dollars,
		IsEmpty: func(codec.Price) bool { return false },
	}
}

// quantityField points a packet at a shared quantity row. Rows are unique
// per canonical value and units, so equal quantities share an id.
func quantityField(staged *models.Quantity, p *models.Packet) reconcile.Field[*models.Quantity] {
	return reconcile.Field[*models.Quantity]{
		Label:   "Quantity",
		Staged:  staged,
		Present: true,
		Get:     func() *models.Quantity { return p.Quantity },
		Set: func(q *models.Quantity) {
			p.Quantity = q
			p.QuantityID = q.ID
		},
		Equal: func(a, b *models.Quantity) bool {
			if a == nil || b == nil {
				return a == b
			}
			return codec.Equal(a.Value, b.Value) && a.Units == b.Units
		},
		Format: func(q *models.Quantity) string {
			if q == nil {
				return ""
			}
			return q.Label()
		},
		IsEmpty: isNil[models.Quantity],
	}
}

// parentField binds a staged parent lookup. A present but empty lookup
// clears the parent; a parent that is the entity itself or one of its
// descendants is rejected.
func (d *Driver) parentField(dc dbctx.Context, em Emitter, cn *models.CommonName, staged *models.CommonNameLookup) (reconcile.Field[*models.CommonName], error) {
	f := reconcile.Field[*models.CommonName]{
		Label: "Parent",
		Get:   func() *models.CommonName { return cn.Parent },
		Set: func(p *models.CommonName) {
			cn.Parent = p
			cn.ParentID = nil
			if p != nil {
				id := p.ID
				cn.ParentID = &id
			}
		},
		Equal: sameID(func(c *models.CommonName) uint { return c.ID }),
		Format: func(p *models.CommonName) string {
			if p == nil {
				return ""
			}
			return p.Name
		},
		IsEmpty: isNil[models.CommonName],
	}
	if staged == nil {
		return f, nil
	}
	f.Present = true
	if staged.IsZero() {
		return f, nil
	}

	parent, _, err := d.resolver.CommonName(dc, em, *staged)
	if err != nil {
		return f, err
	}
	if parent.ID == cn.ID {
		return f, reconcile.NewValidationError(KindCommonName, "parent", parent.Name, "a common name cannot be its own parent")
	}
	seen := map[uint]bool{parent.ID: true}
	for next := parent.ParentID; next != nil; {
		if *next == cn.ID {
			return f, reconcile.NewValidationError(KindCommonName, "parent", parent.Name,
				fmt.Sprintf("'%s' is already a descendant of '%s'", parent.Name, cn.Name))
		}
		if seen[*next] {
			break
		}
		seen[*next] = true
		ancestor, err := d.repo.CommonNames.FindByID(dc, *next)
		if err != nil {
			return f, err
		}
		next = ancestor.ParentID
	}
	f.Staged = parent
	return f, nil
}

// botanicalNameField binds a cultivar's botanical name. Names that only
// fail on capitalization are repaired by the resolver. The bool reports
// whether the botanical name was created for this cultivar.
func (d *Driver) botanicalNameField(dc dbctx.Context, em Emitter, cv *models.Cultivar, staged *string) (reconcile.Field[*models.BotanicalName], bool, error) {
	f := reconcile.Field[*models.BotanicalName]{
		Label: "Botanical Name",
		Get:   func() *models.BotanicalName { return cv.BotanicalName },
		Set: func(bn *models.BotanicalName) {
			cv.BotanicalName = bn
			cv.BotanicalNameID = nil
			if bn != nil {
				id := bn.ID
				cv.BotanicalNameID = &id
			}
		},
		Equal: sameID(func(bn *models.BotanicalName) uint { return bn.ID }),
		Format: func(bn *models.BotanicalName) string {
			if bn == nil {
				return ""
			}
			return bn.Name
		},
		IsEmpty: isNil[models.BotanicalName],
	}
	if staged == nil {
		return f, false, nil
	}
	f.Present = true
	if strings.TrimSpace(*staged) == "" {
		return f, false, nil
	}
	bn, created, err := d.resolver.BotanicalName(dc, em, *staged, true)
	if err != nil {
		return f, false, err
	}
	f.Staged = bn
	return f, created, nil
}
