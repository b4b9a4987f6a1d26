package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:"8080"`                 // Cổng server
	JwtSecret             string `env:"JWT_SECRET,required"`                       // Bí mật JWT
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`                   // Tên cơ sở dữ liệu
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Upload Configuration
	UploadDir         string `env:"UPLOAD_DIR" envDefault:"./uploads"`    // Thư mục lưu file video tải lên
	UploadMaxSizeMB   int    `env:"UPLOAD_MAX_SIZE_MB" envDefault:"500"`  // Dung lượng tối đa mỗi file (MB)
	UploadAllowedExts string `env:"UPLOAD_ALLOWED_EXTS" envDefault:"mp4,avi,mov,wmv,flv,mkv"` // Các đuôi file được phép

	// Processing Pipeline Configuration
	ProcessingStageDelayMs int `env:"PROCESSING_STAGE_DELAY_MS" envDefault:"2000"` // Độ trễ mô phỏng giữa các giai đoạn xử lý

	// SMTP Configuration
	SMTPHost     string `env:"SMTP_HOST"`                                     // SMTP server host
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`                    // SMTP server port
	SMTPUser     string `env:"SMTP_USER"`                                     // Tài khoản SMTP
	SMTPPassword string `env:"SMTP_PASSWORD"`                                 // Mật khẩu SMTP
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"no-reply@sensistream.io"` // Địa chỉ gửi

	// Frontend URL (dùng cho các link xác thực email, đặt lại mật khẩu)
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// Bootstrap Admin (tùy chọn, dùng để tạo sẵn admin cho organization hệ thống)
	AdminEmail    string `env:"ADMIN_EMAIL"`                          // Email của admin mặc định (bỏ trống = không seed)
	AdminPassword string `env:"ADMIN_PASSWORD"`                       // Mật khẩu của admin mặc định
	AdminOrgName  string `env:"ADMIN_ORG_NAME" envDefault:"System"`   // Tên organization hệ thống

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Đi lên từ thư mục hiện tại cho tới khi gặp thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	err := godotenv.Load(envPath)
	if err != nil {
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
