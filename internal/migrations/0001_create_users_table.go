package migrations

import (
	"blog/internal/migrate"
	"blog/internal/schema"
)

func init() {
	register(&migrate.Migration{
		Name: "0001_create_users_table",
		Up: []migrate.Operation{
			migrate.CreateTable{Table: schema.Table{
				Name: "users",
				Fields: []schema.Field{
					{Name: "id", Type: schema.TypeInteger, PrimaryKey: true, AutoIncrement: true},
					{Name: "username", Type: schema.TypeString, Unique: true},
					{Name: "email", Type: schema.TypeString, Unique: true},
					{Name: "created_at", Type: schema.TypeTimestamp, Nullable: true, Default: schema.DefaultNow()},
				},
			}},
		},
		Down: []migrate.Operation{
			migrate.DropTable{Table: "users"},
		},
	})
}
