package repository

import (
	"fmt"
)

/***** Field *****/

// Field describes one property of an entity: either a scalar column or an embedded group
// whose leaf fields are stored as columns of the same table.
type Field struct {
	name     string
	column   string
	embedded []Field
}

// NewField creates a scalar field stored in a column of the same name.
func NewField(name string) Field {
	return Field{name: name, column: name}
}

// NewColumnField creates a scalar field stored in the given column.
func NewColumnField(name string, column string) Field {
	return Field{name: name, column: column}
}

// NewEmbedded creates an embedded group of fields, e.g. an address inside a customer.
func NewEmbedded(name string, fields ...Field) Field {
	return Field{name: name, embedded: append(make([]Field, 0, len(fields)), fields...)}
}

func (f Field) Name() string {
	return f.name
}

// Column returns the column of a scalar field, it is empty for embedded fields.
func (f Field) Column() string {
	return f.column
}

func (f Field) IsEmbedded() bool {
	return f.embedded != nil
}

// Fields returns the nested fields of an embedded field.
func (f Field) Fields() []Field {
	return f.embedded
}

func lookupField(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}

	return Field{}, false
}

/***** Schema *****/

// Schema is the structural description of a stored entity type. It is passed explicitly
// to every repository, the entity type is never inferred.
type Schema struct {
	entityName string
	table      string
	idField    Field
	fields     []Field
	attributes []Attribute
}

// NewSchema builds and validates a Schema. The idField must name one of the top-level scalar fields.
func NewSchema(entityName string, table string, idField string, fields ...Field) (Schema, error) {
	if entityName == "" {
		return Schema{}, ErrEmptyEntityName
	}

	if table == "" {
		return Schema{}, ErrEmptyTableName
	}

	attributes := make([]Attribute, 0, len(fields))
	seenColumns := make(map[string]struct{})

	if err := validateFields(fields, "", seenColumns, &attributes); err != nil {
		return Schema{}, err
	}

	id, ok := lookupField(fields, idField)
	if !ok || id.IsEmbedded() {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownIDField, idField)
	}

	return Schema{
		entityName: entityName,
		table:      table,
		idField:    id,
		fields:     fields,
		attributes: attributes,
	}, nil
}

// MustSchema is like NewSchema but panics on an invalid definition.
// It is meant for package-level schema variables.
func MustSchema(entityName string, table string, idField string, fields ...Field) Schema {
	schema, err := NewSchema(entityName, table, idField, fields...)
	if err != nil {
		panic(err)
	}

	return schema
}

func validateFields(fields []Field, prefix string, seenColumns map[string]struct{}, attributes *[]Attribute) error {
	seenNames := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		if f.name == "" {
			return fmt.Errorf("%w: below %q", ErrEmptyFieldName, prefix)
		}

		path := prefix + f.name

		if _, dup := seenNames[f.name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateField, path)
		}
		seenNames[f.name] = struct{}{}

		if f.IsEmbedded() {
			if len(f.embedded) == 0 {
				return fmt.Errorf("%w: %q", ErrEmptyEmbedded, path)
			}

			if err := validateFields(f.embedded, path+pathSeparator, seenColumns, attributes); err != nil {
				return err
			}

			continue
		}

		if f.column == "" {
			return fmt.Errorf("%w: column of %q", ErrEmptyFieldName, path)
		}

		if _, dup := seenColumns[f.column]; dup {
			return fmt.Errorf("%w: column %q of %q is already mapped", ErrDuplicateField, f.column, path)
		}
		seenColumns[f.column] = struct{}{}
		*attributes = append(*attributes, Attribute{Path: path, Column: f.column})
	}

	return nil
}

func (s Schema) EntityName() string {
	return s.entityName
}

func (s Schema) Table() string {
	return s.table
}

// ID returns the attribute handle of the id field.
func (s Schema) ID() Attribute {
	return Attribute{Path: s.idField.name, Column: s.idField.column}
}

func (s Schema) Fields() []Field {
	return s.fields
}

// Attributes returns the handles of all leaf fields in declaration order, embedded fields depth-first.
func (s Schema) Attributes() []Attribute {
	attributes := make([]Attribute, len(s.attributes))
	copy(attributes, s.attributes)

	return attributes
}

// Columns returns all leaf columns in the order of Attributes.
func (s Schema) Columns() []string {
	columns := make([]string, 0, len(s.attributes))
	for _, attr := range s.attributes {
		columns = append(columns, attr.Column)
	}

	return columns
}

// IsZero reports whether the schema was never built.
func (s Schema) IsZero() bool {
	return s.table == ""
}
