package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	EdgeProp EdgePropConfig `mapstructure:"edgeprop"`
	Media    MediaConfig    `mapstructure:"media"`
	LibPath  LibPathConfig  `mapstructure:"lib_path"`
	Logstash LogstashConfig `mapstructure:"logstash"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	UploadDir string `mapstructure:"upload_dir"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	VideoBucket      string `mapstructure:"video_bucket"`
	PreviewBucket    string `mapstructure:"preview_bucket"`
	ThumbnailBucket  string `mapstructure:"thumbnail_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
}

// EdgePropConfig 外部账号/积分服务配置
type EdgePropConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	PointURL string `mapstructure:"point_url"`
	ApiKey   string `mapstructure:"api_key"`
	Timeout  int    `mapstructure:"timeout"`
}

// MediaConfig 上传与媒体派生配置
type MediaConfig struct {
	MaxFileSize      int64 `mapstructure:"max_file_size"`
	MaxVideoPerUser  int64 `mapstructure:"max_video_per_user"`
	DefaultCostPoint int64 `mapstructure:"default_cost_point"`
	PreviewDuration  int   `mapstructure:"preview_duration"`
	RenderTimeout    int   `mapstructure:"render_timeout"`
}

// LibPathConfig 库路径
type LibPathConfig struct {
	FFmpeg  string `mapstructure:"ffmpeg"`
	FFprobe string `mapstructure:"ffprobe"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}
