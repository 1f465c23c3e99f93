package dto

import "time"

type AbendRecordResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Solution string `json:"solution"`
}

type RefreshAbendsResponse struct {
	Count    int       `json:"count"`
	LoadedAt time.Time `json:"loaded_at"`
}
