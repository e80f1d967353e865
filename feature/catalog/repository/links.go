package repository

import (
	"fmt"

	"seed-catalog/core/dbctx"
	"seed-catalog/feature/catalog/models"

	"gorm.io/gorm"
)

// Link names a many-to-many join table and its two columns.
type Link struct {
	Table  string
	Owner  string
	Member string
}

// Join tables declared by the models' many2many tags.
var (
	CommonNameGrowsWith          = Link{Table: "common_name_grows_with", Owner: "common_name_id", Member: "grows_with_id"}
	CommonNameGrowsWithCultivars = Link{Table: "common_name_grows_with_cultivars", Owner: "common_name_id", Member: "cultivar_id"}
	CultivarGrowsWithCommonNames = Link{Table: "cultivar_grows_with_common_names", Owner: "cultivar_id", Member: "common_name_id"}
	CultivarGrowsWith            = Link{Table: "cultivar_grows_with", Owner: "cultivar_id", Member: "grows_with_id"}
	BotanicalNameCommonNames     = Link{Table: "botanical_names_common_names", Owner: "botanical_name_id", Member: "common_name_id"}
)

// Links writes join-table rows.
type Links interface {
	Attach(dc dbctx.Context, link Link, ownerID, memberID uint) error
	Detach(dc dbctx.Context, link Link, ownerID, memberID uint) error
	// Owners counts the rows that point at memberID.
	Owners(dc dbctx.Context, link Link, memberID uint) (int64, error)
}

type gormLinks struct {
	db *gorm.DB
}

func (l *gormLinks) Attach(dc dbctx.Context, link Link, ownerID, memberID uint) error {
	row := map[string]any{link.Owner: ownerID, link.Member: memberID}
	if err := dc.DB(l.db).Table(link.Table).Create(row).Error; err != nil {
		return fmt.Errorf("failed to attach %d to %s of %d: %w", memberID, link.Table, ownerID, err)
	}
	return nil
}

func (l *gormLinks) Detach(dc dbctx.Context, link Link, ownerID, memberID uint) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND %s = ?", link.Table, link.Owner, link.Member)
	if err := dc.DB(l.db).Exec(sql, ownerID, memberID).Error; err != nil {
		return fmt.Errorf("failed to detach %d from %s of %d: %w", memberID, link.Table, ownerID, err)
	}
	return nil
}

func (l *gormLinks) Owners(dc dbctx.Context, link Link, memberID uint) (int64, error) {
	var n int64
	if err := dc.DB(l.db).Table(link.Table).Where(link.Member+" = ?", memberID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count owners of %d in %s: %w", memberID, link.Table, err)
	}
	return n, nil
}

// SynonymStore writes synonym rows. Synonyms belong to their owner, so a
// removed synonym is deleted rather than detached.
type SynonymStore interface {
	Add(dc dbctx.Context, syn *models.Synonym) error
	Remove(dc dbctx.Context, syn *models.Synonym) error
}

type synonymStore struct {
	db *gorm.DB
}

func (s *synonymStore) Add(dc dbctx.Context, syn *models.Synonym) error {
	if err := dc.DB(s.db).Create(syn).Error; err != nil {
		return fmt.Errorf("failed to add synonym %q: %w", syn.Name, err)
	}
	return nil
}

func (s *synonymStore) Remove(dc dbctx.Context, syn *models.Synonym) error {
	if err := dc.DB(s.db).Delete(&models.Synonym{}, syn.ID).Error; err != nil {
		return fmt.Errorf("failed to remove synonym %q: %w", syn.Name, err)
	}
	return nil
}
