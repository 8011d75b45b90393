package domain

// Identity 令牌解析后的调用方
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role_id"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
