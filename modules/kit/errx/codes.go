package errx

// 跨模块统一的通用错误码。
//
// 约束：
// - 这里只放“系统/技术类”和“请求参数类”错误码
// - 领域错误码（例如 LEVEL_TRUNCATED）由各自的包定义，不在 kit 里集中

const (
	// CodeInternal 内部不可预期错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（文件系统、数据库等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 统一哨兵错误（通过 WithData/WithCause 派生新对象，禁止直接修改）。
var (
	ErrInternal    = NewSys(CodeInternal, "内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "依赖不可用")
	ErrReqParamERR = NewInput(CodeReqParamError, "请求参数错误")
)
