package consts

const (
	SessionUserKey = "session:user:"
	UserPointsKey  = "user:points:"
	OrphanBlobKey  = "blob:orphan"
)
