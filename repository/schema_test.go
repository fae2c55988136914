package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
	. "github.com/AntonStoeckl/dynamic-filter-repository-go/testutil/helper" //nolint:revive
)

func Test_NewSchema_CollectsAttributesDepthFirst(t *testing.T) {
	// act
	schema := CustomerSchema

	// assert
	assert.Equal(t, "Customer", schema.EntityName())
	assert.Equal(t, "customers", schema.Table())
	assert.Equal(t, repository.Attribute{Path: "id", Column: "id"}, schema.ID())
	assert.Equal(t, []string{"id", "name", "age", "street", "city"}, schema.Columns())
	assert.Equal(t, repository.Attribute{Path: "address.city", Column: "city"}, schema.Attributes()[4])
	assert.False(t, schema.IsZero())
	assert.True(t, repository.Schema{}.IsZero())
}

func Test_Schema_Attributes_ReturnsACopy(t *testing.T) {
	// arrange
	attributes := CustomerSchema.Attributes()

	// act
	attributes[0].Column = "changed"

	// assert
	assert.Equal(t, "id", CustomerSchema.Attributes()[0].Column)
}

func Test_NewSchema_ShouldFail_WithInvalidDefinition(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		table       string
		idField     string
		fields      []repository.Field
		expectedErr error
	}{
		{
			name:        "empty_entity_name",
			table:       "t",
			idField:     "id",
			fields:      []repository.Field{repository.NewField("id")},
			expectedErr: repository.ErrEmptyEntityName,
		},
		{
			name:        "empty_table",
			entity:      "E",
			idField:     "id",
			fields:      []repository.Field{repository.NewField("id")},
			expectedErr: repository.ErrEmptyTableName,
		},
		{
			name:        "empty_field_name",
			entity:      "E",
			table:       "t",
			idField:     "id",
			fields:      []repository.Field{repository.NewField("id"), repository.NewField("")},
			expectedErr: repository.ErrEmptyFieldName,
		},
		{
			name:        "empty_column",
			entity:      "E",
			table:       "t",
			idField:     "id",
			fields:      []repository.Field{repository.NewField("id"), repository.NewColumnField("name", "")},
			expectedErr: repository.ErrEmptyFieldName,
		},
		{
			name:        "duplicate_field_name",
			entity:      "E",
			table:       "t",
			idField:     "id",
			fields:      []repository.Field{repository.NewField("id"), repository.NewColumnField("id", "other")},
			expectedErr: repository.ErrDuplicateField,
		},
		{
			name:    "duplicate_column_across_embedded_fields",
			entity:  "E",
			table:   "t",
			idField: "id",
			fields: []repository.Field{
				repository.NewField("id"),
				repository.NewEmbedded("home", repository.NewField("city")),
				repository.NewEmbedded("work", repository.NewField("city")),
			},
			expectedErr: repository.ErrDuplicateField,
		},
		{
			name:        "empty_embedded",
			entity:      "E",
			table:       "t",
			idField:     "id",
			fields:      []repository.Field{repository.NewField("id"), repository.NewEmbedded("address")},
			expectedErr: repository.ErrEmptyEmbedded,
		},
		{
			name:        "unknown_id_field",
			entity:      "E",
			table:       "t",
			idField:     "key",
			fields:      []repository.Field{repository.NewField("id")},
			expectedErr: repository.ErrUnknownIDField,
		},
		{
			name:        "embedded_id_field",
			entity:      "E",
			table:       "t",
			idField:     "key",
			fields:      []repository.Field{repository.NewEmbedded("key", repository.NewField("part"))},
			expectedErr: repository.ErrUnknownIDField,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := repository.NewSchema(tc.entity, tc.table, tc.idField, tc.fields...)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_MustSchema_Panics_WithInvalidDefinition(t *testing.T) {
	assert.Panics(t, func() {
		repository.MustSchema("E", "", "id", repository.NewField("id"))
	})
}

func Test_Mapping_Validate(t *testing.T) {
	// arrange
	complete := CustomerMapping()
	withoutScanTargets := CustomerMapping()
	withoutScanTargets.ScanTargets = nil
	withoutSchema := CustomerMapping()
	withoutSchema.Schema = repository.Schema{}

	// act & assert
	require.NoError(t, complete.Validate())
	assert.ErrorIs(t, withoutScanTargets.Validate(), repository.ErrInvalidMapping)
	assert.ErrorIs(t, withoutSchema.Validate(), repository.ErrEmptyTableName)
}
