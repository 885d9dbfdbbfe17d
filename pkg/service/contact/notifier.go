/*
 * @Description: 联系表单通知（SMTP 邮件）
 * @Date: 2026-10-18 14:22:51
 */
package contact

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/calisto-ai/calisto-site/internal/pkg/strutil"
	"github.com/calisto-ai/calisto-site/pkg/config"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

const dialTimeout = 15 * time.Second

// Notifier 把一次合法提交通知给团队
type Notifier interface {
	Notify(ctx context.Context, form *model.ContactForm) error
}

// MailConfig SMTP 配置
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

// MailConfigFrom 从配置读取邮件参数，From/To 缺省时使用公司邮箱
func MailConfigFrom(cfg *config.Config) MailConfig {
	mc := MailConfig{
		Host:     strings.TrimSpace(cfg.GetString(config.KeyMailHost)),
		Port:     cfg.GetInt(config.KeyMailPort),
		User:     cfg.GetString(config.KeyMailUser),
		Password: cfg.GetString(config.KeyMailPassword),
		From:     strings.TrimSpace(cfg.GetString(config.KeyMailFrom)),
		To:       strings.TrimSpace(cfg.GetString(config.KeyMailTo)),
	}
	if mc.Port == 0 {
		mc.Port = 587
	}
	if mc.From == "" {
		mc.From = "contato@calistoai.com.br"
	}
	if mc.To == "" {
		mc.To = mc.From
	}
	return mc
}

// NewNotifier 未配置 SMTP 主机时只记录日志，开发环境不会因为缺少邮件服务而失败
func NewNotifier(mc MailConfig, logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if mc.Host == "" {
		logger.Warn("mail host not configured, contact submissions will only be logged")
		return &logNotifier{logger: logger}
	}
	return &smtpNotifier{cfg: mc, logger: logger, send: sendMail}
}

// messagePreviewLength 日志里只保留留言开头
const messagePreviewLength = 80

type logNotifier struct {
	logger *slog.Logger
}

func (n *logNotifier) Notify(ctx context.Context, form *model.ContactForm) error {
	n.logger.InfoContext(ctx, "contact submission (mail disabled)",
		"name", form.Name, "email", MaskEmail(form.Email),
		"preview", strutil.Truncate(strutil.SingleLine(form.Message), messagePreviewLength))
	return nil
}

// mailMessage 一封待发送的邮件
type mailMessage struct {
	to      string
	subject string
	body    string
}

type sendFunc func(ctx context.Context, cfg MailConfig, msg mailMessage) error

type smtpNotifier struct {
	cfg    MailConfig
	logger *slog.Logger
	send   sendFunc
}

// Notify 同时发送团队通知和客户确认邮件，任意一封失败都算失败
func (n *smtpNotifier) Notify(ctx context.Context, form *model.ContactForm) error {
	team, err := renderTemplate(teamTemplate, templateData(form))
	if err != nil {
		return err
	}
	client, err := renderTemplate(clientTemplate, templateData(form))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return n.send(ctx, n.cfg, mailMessage{
			to:      n.cfg.To,
			subject: fmt.Sprintf("[Calisto A.I.] Novo contato: %s", strutil.SingleLine(form.Name)),
			body:    team,
		})
	})
	g.Go(func() error {
		return n.send(ctx, n.cfg, mailMessage{
			to:      form.Email,
			subject: "Recebemos seu contato - Calisto A.I.",
			body:    client,
		})
	})
	if err := g.Wait(); err != nil {
		n.logger.ErrorContext(ctx, "sending contact mail failed", "error", err)
		return err
	}
	return nil
}

func templateData(form *model.ContactForm) map[string]any {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}
	return map[string]any{
		"Name":        form.Name,
		"Email":       form.Email,
		"Phone":       form.Phone,
		"PhoneDigits": nonDigit.ReplaceAllString(form.Phone, ""),
		"Company":     form.Company,
		"Lines":       strings.Split(form.Message, "\n"),
		"Received":    time.Now().In(loc).Format("02/01/2006 15:04:05"),
	}
}

const teamTemplate = `<h2>Novo Contato Recebido</h2>
<p><strong>Nome:</strong> {{.Name}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
<p><strong>Telefone/WhatsApp:</strong> <a href="tel:{{.PhoneDigits}}">{{.Phone}}</a> <a href="https://wa.me/{{.PhoneDigits}}">WhatsApp</a></p>
{{if .Company}}<p><strong>Empresa:</strong> {{.Company}}</p>{{end}}
<p><strong>Mensagem:</strong><br>{{range $i, $l := .Lines}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
<p><strong>LGPD:</strong> Cliente aceitou os termos da LGPD</p>
<p>Recebido em: {{.Received}}</p>`

const clientTemplate = `<h2>Obrigado pelo seu contato!</h2>
<p>Olá <strong>{{.Name}}</strong>,</p>
<p>Recebemos sua mensagem e nossa equipe entrará em contato em breve.</p>
<p><strong>Resumo da sua solicitação:</strong><br>{{range $i, $l := .Lines}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
<p>Atenciosamente,<br><strong>Equipe Calisto A.I.</strong></p>`

func renderTemplate(tplStr string, data any) (string, error) {
	tpl, err := template.New("email").Parse(tplStr)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildMessage 按固定顺序写出邮件头
func buildMessage(from string, msg mailMessage) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: Calisto A.I. <%s>\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.to)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.body)
	return []byte(b.String())
}

// sendMail 465 端口直接 TLS，其余端口尝试 STARTTLS
func sendMail(ctx context.Context, cfg MailConfig, msg mailMessage) error {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dialer := &net.Dialer{Timeout: dialTimeout}
	tlsConfig := &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if cfg.Port == 465 {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer c.Close()

	if cfg.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}
	if cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(msg.to); err != nil {
		return fmt.Errorf("smtp rcpt %s: %w", msg.to, err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(cfg.From, msg)); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}
	// QUIT 失败不影响已投递的邮件
	_ = c.Quit()
	return nil
}
