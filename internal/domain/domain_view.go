package domain

// ViewMode 笔记列表视图
type ViewMode string

const (
	ViewMine   ViewMode = "mine"
	ViewPublic ViewMode = "public"
)

// Valid 是否为已知视图
func (m ViewMode) Valid() bool {
	return m == ViewMine || m == ViewPublic
}

// SortMode 笔记列表排序方式
type SortMode string

const (
	SortUpdatedDesc SortMode = "updated_desc"
	SortCreatedDesc SortMode = "created_desc"
	SortCreatedAsc  SortMode = "created_asc"
	SortTitleAsc    SortMode = "title_asc"
)

// SortModes 全部排序方式
var SortModes = []SortMode{SortUpdatedDesc, SortCreatedDesc, SortCreatedAsc, SortTitleAsc}

// Valid 是否为已知排序方式
func (s SortMode) Valid() bool {
	for _, m := range SortModes {
		if s == m {
			return true
		}
	}
	return false
}

// Order 排序方式对应的查询排序键
func (s SortMode) Order() NoteOrder {
	switch s {
	case SortCreatedDesc:
		return NoteOrder{Column: ColumnCreatedAt, Desc: true}
	case SortCreatedAsc:
		return NoteOrder{Column: ColumnCreatedAt}
	case SortTitleAsc:
		return NoteOrder{Column: ColumnTitle}
	default:
		return NoteOrder{Column: ColumnUpdatedAt, Desc: true}
	}
}

// ImportMode 导入方式
type ImportMode string

const (
	ImportMerge   ImportMode = "merge"
	ImportReplace ImportMode = "replace"
)

// Valid 是否为已知导入方式
func (m ImportMode) Valid() bool {
	return m == ImportMerge || m == ImportReplace
}
