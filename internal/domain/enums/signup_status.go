package enums

type SignupStatus string

const (
	SignupPendingProfile SignupStatus = "pending_profile"
	SignupActive         SignupStatus = "active"
)

type RegionLevel string

const (
	RegionLevelProvince     RegionLevel = "province"
	RegionLevelDistrict     RegionLevel = "district"
	RegionLevelNeighborhood RegionLevel = "neighborhood"
)
