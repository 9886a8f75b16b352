package report

import (
	"github.com/lostaf-io/lostaf/internal/db"
	"github.com/lostaf-io/lostaf/internal/domain"
)

const (
	keyPrefix = domain.KeyPrefix + "report:"
	indexName = domain.KeyPrefix + "report:idx"

	// tagSeparator keeps commas inside category and location values intact.
	tagSeparator = "|"

	// titleWeight ranks a search hit in the title above one in the description.
	titleWeight = 2.0
)

// Field aliases used in FT.SEARCH queries.
const (
	fieldKind         = "kind"
	fieldStatus       = "status"
	fieldCategory     = "category"
	fieldLocation     = "location"
	fieldOwnerID      = "owner_id"
	fieldHasEmbedding = "has_embedding"
	fieldTitle        = "title"
	fieldDescription  = "description"
	fieldCreatedAt    = "created_at"
)

func reportKey(id string) string {
	return keyPrefix + id
}

// IndexDefinition describes the FT index over report documents.
func IndexDefinition() *db.IndexDefinition {
	return db.MustJSONIndex(indexName, keyPrefix,
		db.TagField("$.kind", fieldKind),
		db.TagField("$.status", fieldStatus),
		db.TagField("$.category", fieldCategory).SeparatedBy(tagSeparator),
		db.TagField("$.location", fieldLocation).SeparatedBy(tagSeparator),
		db.TagField("$.owner_id", fieldOwnerID),
		db.TagField("$.has_embedding", fieldHasEmbedding),
		db.TextField("$.title", fieldTitle).Weighted(titleWeight),
		db.TextField("$.description", fieldDescription),
		db.NumericField("$.created_at", fieldCreatedAt).Sorted(),
	)
}
