package dto

type CreateUserRequest struct {
	DisplayName string `json:"displayName"`
	TimeZone    string `json:"timeZone"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	TimeZone    string `json:"timeZone"`
}

type AddFriendRequest struct {
	UID string `json:"uid"`
}

type Friend struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
}
