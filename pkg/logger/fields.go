package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldIntent 命令名称字段
	FieldIntent = "intent"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldPath 请求或文件路径字段
	FieldPath = "path"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldCount 条数字段
	FieldCount = "count"

	// FieldBatch 批次序号字段
	FieldBatch = "batch"

	// FieldViewMode 视图模式字段
	FieldViewMode = "viewMode"

	// FieldGeneration 刷新代次字段
	FieldGeneration = "generation"
)
