package migrations

import (
	"blog/internal/migrate"
	"blog/internal/schema"
)

func init() {
	register(&migrate.Migration{
		Name:      "0004_create_tags_table",
		DependsOn: "0003_create_comments_table",
		Up: []migrate.Operation{
			migrate.CreateTable{Table: schema.Table{
				Name: "tags",
				Fields: []schema.Field{
					{Name: "id", Type: schema.TypeInteger, PrimaryKey: true, AutoIncrement: true},
					{Name: "name", Type: schema.TypeString, Unique: true},
					{Name: "slug", Type: schema.TypeString, Unique: true},
				},
			}},
			migrate.CreateTable{Table: schema.Table{
				Name: "post_tags",
				Fields: []schema.Field{
					{Name: "id", Type: schema.TypeInteger, PrimaryKey: true, AutoIncrement: true},
					{Name: "post_id", Type: schema.TypeInteger, Nullable: true},
					{Name: "tag_id", Type: schema.TypeInteger, Nullable: true},
				},
				ForeignKeys: []schema.ForeignKey{
					{
						Name:       "fk_post_tags_post_id",
						Columns:    []string{"post_id"},
						RefTable:   "posts",
						RefColumns: []string{"id"},
						OnDelete:   schema.ActionCascade,
						OnUpdate:   schema.ActionCascade,
					},
					{
						Name:       "fk_post_tags_tag_id",
						Columns:    []string{"tag_id"},
						RefTable:   "tags",
						RefColumns: []string{"id"},
						OnDelete:   schema.ActionCascade,
						OnUpdate:   schema.ActionCascade,
					},
				},
				UniqueTogether: [][]string{{"post_id", "tag_id"}},
			}},
		},
		Down: []migrate.Operation{
			migrate.DropTable{Table: "post_tags"},
			migrate.DropTable{Table: "tags"},
		},
	})
}
