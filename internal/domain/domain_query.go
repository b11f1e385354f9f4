package domain

// NoteColumn 可用于过滤和排序的列
type NoteColumn string

const (
	ColumnID        NoteColumn = "id"
	ColumnOwnerID   NoteColumn = "owner_id"
	ColumnTitle     NoteColumn = "title"
	ColumnPinned    NoteColumn = "pinned"
	ColumnIsPublic  NoteColumn = "is_public"
	ColumnCreatedAt NoteColumn = "created_at"
	ColumnUpdatedAt NoteColumn = "updated_at"
)

// Orderable 是否允许排序
func (c NoteColumn) Orderable() bool {
	switch c {
	case ColumnPinned, ColumnTitle, ColumnCreatedAt, ColumnUpdatedAt:
		return true
	}
	return false
}

// NoteOrder 排序键
type NoteOrder struct {
	Column NoteColumn
	Desc   bool
}

// NoteQuery 笔记查询条件
type NoteQuery struct {
	ID       string
	OwnerID  string
	IsPublic *bool
	Pinned   *bool
	Orders   []NoteOrder
	Limit    int
}

// NoteFilter 更新/删除的行选择条件，至少需要一个字段
type NoteFilter struct {
	ID      string
	OwnerID string
}

// IsEmpty 未指定任何条件
func (f NoteFilter) IsEmpty() bool {
	return f.ID == "" && f.OwnerID == ""
}

// BoolPtr 返回 b 的指针
func BoolPtr(b bool) *bool {
	return &b
}
