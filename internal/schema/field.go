package schema

// FieldType is the logical type of a column. The rendered storage type can
// be overridden per field with Field.DBType.
type FieldType string

const (
	TypeInteger   FieldType = "integer"
	TypeString    FieldType = "string"
	TypeBoolean   FieldType = "boolean"
	TypeTimestamp FieldType = "timestamp"
)

// RefAction is a referential action attached to a foreign key.
type RefAction string

const (
	ActionCascade  RefAction = "CASCADE"
	ActionRestrict RefAction = "RESTRICT"
	ActionSetNull  RefAction = "SET NULL"
	ActionNoAction RefAction = "NO ACTION"
)

// Default is a column default: either a literal SQL expression or the
// symbolic current-timestamp marker.
type Default struct {
	Now     bool
	Literal string
}

// DefaultNow returns the symbolic current-timestamp default.
func DefaultNow() *Default {
	return &Default{Now: true}
}

// DefaultLiteral returns a default rendered verbatim into the DDL.
func DefaultLiteral(expr string) *Default {
	return &Default{Literal: expr}
}

// Field describes one column of a table definition.
type Field struct {
	Name          string
	Type          FieldType
	DBType        string
	Nullable      bool
	PrimaryKey    bool
	Unique        bool
	Default       *Default
	AutoIncrement bool
}

func (f Field) clone() Field {
	c := f
	if f.Default != nil {
		d := *f.Default
		c.Default = &d
	}
	return c
}
