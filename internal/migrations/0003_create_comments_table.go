package migrations

import (
	"blog/internal/migrate"
	"blog/internal/schema"
)

func init() {
	register(&migrate.Migration{
		Name:      "0003_create_comments_table",
		DependsOn: "0002_create_posts_table",
		Up: []migrate.Operation{
			migrate.CreateTable{Table: schema.Table{
				Name: "comments",
				Fields: []schema.Field{
					{Name: "id", Type: schema.TypeInteger, PrimaryKey: true, AutoIncrement: true},
					{Name: "content", Type: schema.TypeString},
					{Name: "created_at", Type: schema.TypeTimestamp, Nullable: true, Default: schema.DefaultNow()},
					{Name: "post_id", Type: schema.TypeInteger, Nullable: true},
					{Name: "author_id", Type: schema.TypeInteger, Nullable: true},
				},
				ForeignKeys: []schema.ForeignKey{
					{
						Name:       "fk_comments_post_id",
						Columns:    []string{"post_id"},
						RefTable:   "posts",
						RefColumns: []string{"id"},
						OnDelete:   schema.ActionCascade,
						OnUpdate:   schema.ActionCascade,
					},
					{
						Name:       "fk_comments_author_id",
						Columns:    []string{"author_id"},
						RefTable:   "users",
						RefColumns: []string{"id"},
						OnDelete:   schema.ActionCascade,
						OnUpdate:   schema.ActionCascade,
					},
				},
			}},
		},
		Down: []migrate.Operation{
			migrate.DropTable{Table: "comments"},
		},
	})
}
