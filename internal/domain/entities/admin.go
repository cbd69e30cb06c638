package entities

// PlatformStats is the admin dashboard headline summary
type PlatformStats struct {
	TotalUsers         int64 `json:"totalUsers"`
	ActiveInvestments  int64 `json:"activeInvestments"`
	TotalInvestedPaise int64 `json:"totalInvestedPaise"`
	OpenTickets        int64 `json:"openTickets"`
}
