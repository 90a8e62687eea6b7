package schema

// BlogPostTable represents the 'blog.post' table
type BlogPostTable struct {
	Table     string
	ID        string
	Title     string
	Slug      string
	Content   string
	AuthorID  string
	CreatedAt string
	UpdatedAt string
}

// BlogPost is the schema definition for blog.post
var BlogPost = BlogPostTable{
	Table:     "blog.post",
	ID:        "id",
	Title:     "title",
	Slug:      "slug",
	Content:   "content",
	AuthorID:  "authorid",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t BlogPostTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Content, t.AuthorID, t.CreatedAt, t.UpdatedAt,
	}
}
