package consts

const (
	MimePrefixVideo = "video/"

	ContentTypeGif  = "image/gif"
	ContentTypeJpeg = "image/jpeg"
)

const (
	// CacheControlVideo 源视频一年缓存
	CacheControlVideo = "max-age=31536000"
	// CacheControlDerived 派生资源一小时缓存
	CacheControlDerived = "max-age=3600"
)
