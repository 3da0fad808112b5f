package dto

// ── 资料模块 DTO ──

// UpsertProfileRequest 资料写入请求（按 user_id 插入或覆盖）
// display_name 2-10 字符，服务层统一转为大写
type UpsertProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=2,max=10"`
	Role        string `json:"role"`
	Shift       string `json:"shift"        binding:"required,oneof=AM PM NOC"`
}

// ProfileResponse 资料响应
type ProfileResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Shift       string `json:"shift"`
	Complete    bool   `json:"complete"`
}
