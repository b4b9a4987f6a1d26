package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"sensistream/config"
)

// Sender gửi email qua SMTP
type Sender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSender tạo mới Sender từ cấu hình SMTP
func NewSender(cfg *config.Configuration) *Sender {
	return &Sender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

// Send gửi một item trong queue qua SMTP
func (s *Sender) Send(item *DeliveryQueueItem) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("SensiStream <%s>", s.from))
	msg.SetHeader("To", item.Recipient)
	msg.SetHeader("Subject", item.Subject)
	msg.SetBody("text/html", item.Body)

	dialer := gomail.NewDialer(s.host, s.port, s.username, s.password)
	return dialer.DialAndSend(msg)
}

// BuildVerificationEmail tạo nội dung email xác thực tài khoản
func BuildVerificationEmail(name string, verifyLink string) (subject string, body string) {
	subject = "Xác thực tài khoản SensiStream"
	body = fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
			<h2 style="color:#333;">Chào %s,</h2>
			<p>Cảm ơn bạn đã đăng ký SensiStream. Vui lòng xác thực địa chỉ email của bạn bằng cách nhấn vào nút bên dưới:</p>
			<a href="%s" style="display:inline-block;padding:10px 20px;margin:5px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Xác thực email</a>
			<p>Liên kết này sẽ hết hạn sau 24 giờ.</p>
			<p style="color:#888;font-size:12px;">Nếu bạn không đăng ký tài khoản này, vui lòng bỏ qua email.</p>
		</div>`, name, verifyLink)
	return subject, body
}

// BuildWelcomeEmail tạo nội dung email chào mừng sau khi xác thực email thành công
func BuildWelcomeEmail(name string, dashboardLink string) (subject string, body string) {
	subject = "Chào mừng đến với SensiStream"
	body = fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
			<h2 style="color:#333;">Chào %s,</h2>
			<p>Email của bạn đã được xác thực thành công. Bạn có thể bắt đầu tải video lên và theo dõi quá trình xử lý ngay bây giờ.</p>
			<a href="%s" style="display:inline-block;padding:10px 20px;margin:5px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Vào trang quản lý</a>
		</div>`, name, dashboardLink)
	return subject, body
}

// BuildPasswordResetEmail tạo nội dung email đặt lại mật khẩu
func BuildPasswordResetEmail(name string, resetLink string) (subject string, body string) {
	subject = "Đặt lại mật khẩu SensiStream"
	body = fmt.Sprintf(`
		<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
			<h2 style="color:#333;">Chào %s,</h2>
			<p>Chúng tôi nhận được yêu cầu đặt lại mật khẩu cho tài khoản của bạn. Nhấn vào nút bên dưới để tiếp tục:</p>
			<a href="%s" style="display:inline-block;padding:10px 20px;margin:5px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Đặt lại mật khẩu</a>
			<p>Liên kết này sẽ hết hạn sau 1 giờ.</p>
			<p style="color:#888;font-size:12px;">Nếu bạn không yêu cầu đặt lại mật khẩu, vui lòng bỏ qua email.</p>
		</div>`, name, resetLink)
	return subject, body
}
