package migrations

import (
	"blog/internal/migrate"
	"blog/internal/schema"
)

func init() {
	register(&migrate.Migration{
		Name:      "0002_create_posts_table",
		DependsOn: "0001_create_users_table",
		Up: []migrate.Operation{
			migrate.CreateTable{Table: schema.Table{
				Name: "posts",
				Fields: []schema.Field{
					{Name: "id", Type: schema.TypeInteger, PrimaryKey: true, AutoIncrement: true},
					{Name: "title", Type: schema.TypeString},
					{Name: "content", Type: schema.TypeString},
					{Name: "published", Type: schema.TypeBoolean, Default: schema.DefaultLiteral("FALSE")},
					{Name: "created_at", Type: schema.TypeTimestamp, Nullable: true, Default: schema.DefaultNow()},
					{Name: "updated_at", Type: schema.TypeTimestamp, Nullable: true, Default: schema.DefaultNow()},
					{Name: "author_id", Type: schema.TypeInteger, Nullable: true},
				},
				ForeignKeys: []schema.ForeignKey{{
					Name:       "fk_posts_author_id",
					Columns:    []string{"author_id"},
					RefTable:   "users",
					RefColumns: []string{"id"},
					OnDelete:   schema.ActionCascade,
					OnUpdate:   schema.ActionCascade,
				}},
			}},
		},
		Down: []migrate.Operation{
			migrate.DropTable{Table: "posts"},
		},
	})
}
