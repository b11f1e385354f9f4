package code

import "net/http"

var (
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})

	ErrorServerInternal  = NewError(500, KindServer, http.StatusInternalServerError, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorInvalidParams   = NewError(400, KindInvalidInput, http.StatusBadRequest, lang{en: "Invalid parameters", zh_cn: "参数错误"})
	ErrorNotFoundAPI     = NewError(404, KindInvalidInput, http.StatusNotFound, lang{en: "Resource not found", zh_cn: "资源不存在"})
	ErrorTooManyRequests = NewError(429, KindServer, http.StatusTooManyRequests, lang{en: "Too many requests", zh_cn: "请求过于频繁"})
	ErrorDBQuery         = NewError(501, KindServer, http.StatusInternalServerError, lang{en: "Database query failed", zh_cn: "数据库查询失败"})
	ErrorMailSend        = NewError(502, KindServer, http.StatusInternalServerError, lang{en: "Error sending confirmation email", zh_cn: "确认邮件发送失败"})

	// 接口鉴权
	ErrorInvalidAPIKey        = NewError(401, KindAuth, http.StatusUnauthorized, lang{en: "Invalid API key", zh_cn: "API Key 无效"})
	ErrorNotUserAuthToken     = NewError(402, KindAuth, http.StatusUnauthorized, lang{en: "Missing authorization token", zh_cn: "缺少授权 Token"})
	ErrorInvalidUserAuthToken = NewError(403, KindAuth, http.StatusUnauthorized, lang{en: "Invalid or expired token", zh_cn: "Token 无效或已过期"})

	// 配置
	ErrorStoreNotConfigured = NewError(1001, KindConfiguration, http.StatusServiceUnavailable, lang{en: "Note store is not configured", zh_cn: "笔记存储未配置"})
	ErrorConfigLoad         = NewError(1002, KindConfiguration, http.StatusInternalServerError, lang{en: "Failed to load configuration", zh_cn: "配置加载失败"})

	// 认证
	ErrorAuthRequired          = NewError(1101, KindAuth, http.StatusUnauthorized, lang{en: "Please sign in first", zh_cn: "请先登录"})
	ErrorAuthFailed            = NewError(1102, KindAuth, http.StatusBadRequest, lang{en: "Authentication failed", zh_cn: "认证失败"})
	ErrorInvalidCredentials    = NewError(1103, KindAuth, http.StatusBadRequest, lang{en: "Invalid login credentials", zh_cn: "邮箱或密码错误"})
	ErrorUserAlreadyExists     = NewError(1104, KindAuth, http.StatusUnprocessableEntity, lang{en: "User already registered", zh_cn: "用户已注册"})
	ErrorEmailNotConfirmed     = NewError(1105, KindAuth, http.StatusBadRequest, lang{en: "Email not confirmed", zh_cn: "邮箱未验证"})
	ErrorInvalidRefreshToken   = NewError(1106, KindAuth, http.StatusBadRequest, lang{en: "Invalid Refresh Token", zh_cn: "刷新 Token 无效"})
	ErrorOAuthProviderDisabled = NewError(1107, KindAuth, http.StatusBadRequest, lang{en: "Unsupported provider: provider is not enabled", zh_cn: "不支持的登录方式：未启用该提供方"})
	ErrorInvalidConfirmToken   = NewError(1108, KindAuth, http.StatusBadRequest, lang{en: "Email link is invalid or has expired", zh_cn: "邮件链接无效或已过期"})

	// 远端操作
	ErrorRemoteOperation  = NewError(1201, KindRemote, http.StatusBadGateway, lang{en: "Remote operation failed", zh_cn: "远端操作失败"})
	ErrorRowLevelSecurity = NewError(1202, KindPermission, http.StatusForbidden, lang{en: `new row violates row-level security policy for table "notes"`, zh_cn: "新行违反了 notes 表的行级安全策略"})

	// 图片
	ErrorImageDecode   = NewError(1301, KindImageDecode, http.StatusBadRequest, lang{en: "Unable to read the image", zh_cn: "无法读取图片"})
	ErrorImageTooLarge = NewError(1302, KindImageDecode, http.StatusRequestEntityTooLarge, lang{en: "Image file is too large", zh_cn: "图片文件过大"})

	// 导入
	ErrorImportParse = NewError(1401, KindParse, http.StatusBadRequest, lang{en: "Import file is not a valid notes document", zh_cn: "导入文件不是有效的笔记文档"})

	// 权限
	ErrorPermissionViolation = NewError(1501, KindPermission, http.StatusForbidden, lang{en: "This note belongs to another user", zh_cn: "该笔记属于其他用户"})

	// 输入与会话状态
	ErrorNoteEmpty            = NewError(1601, KindInvalidInput, http.StatusBadRequest, lang{en: "Add a title, content or image before saving", zh_cn: "保存前请填写标题、内容或图片"})
	ErrorConfirmationRequired = NewError(1602, KindInvalidInput, http.StatusBadRequest, lang{en: "Operation cancelled: confirmation required", zh_cn: "操作已取消：需要确认"})
	ErrorEditSessionOpen      = NewError(1603, KindInvalidInput, http.StatusConflict, lang{en: "Another note is already being edited", zh_cn: "已有笔记正在编辑"})
	ErrorEditSessionClosed    = NewError(1604, KindInvalidInput, http.StatusConflict, lang{en: "No note is being edited", zh_cn: "当前没有正在编辑的笔记"})
	ErrorOperationInProgress  = NewError(1605, KindInvalidInput, http.StatusConflict, lang{en: "Operation already in progress", zh_cn: "操作正在进行中"})
	ErrorInvalidViewMode      = NewError(1606, KindInvalidInput, http.StatusBadRequest, lang{en: "Unknown view mode", zh_cn: "未知的视图模式"})
	ErrorInvalidSortMode      = NewError(1607, KindInvalidInput, http.StatusBadRequest, lang{en: "Unknown sort mode", zh_cn: "未知的排序方式"})
	ErrorInvalidImportMode    = NewError(1608, KindInvalidInput, http.StatusBadRequest, lang{en: "Unknown import mode", zh_cn: "未知的导入模式"})
	ErrorNoteNotFound         = NewError(1609, KindInvalidInput, http.StatusNotFound, lang{en: "Note not found", zh_cn: "笔记不存在"})
	ErrorUnknownIntent        = NewError(1610, KindInvalidInput, http.StatusBadRequest, lang{en: "Unknown command", zh_cn: "未知命令"})
)
