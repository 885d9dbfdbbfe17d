package contact

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calisto-ai/calisto-site/pkg/config"
	"github.com/calisto-ai/calisto-site/pkg/constant"
	"github.com/calisto-ai/calisto-site/pkg/domain/model"
)

type recordingNotifier struct {
	forms []*model.ContactForm
	err   error
}

func (r *recordingNotifier) Notify(_ context.Context, form *model.ContactForm) error {
	r.forms = append(r.forms, form)
	return r.err
}

func validForm() *model.ContactForm {
	return &model.ContactForm{
		Name:       "Maria Silva",
		Email:      "maria.silva@example.com",
		Phone:      "(99) 98888-7777",
		Company:    "Cartório Central",
		Message:    "Gostaria de um orçamento para automação.",
		AcceptLGPD: true,
	}
}

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"(99) 98888-7777", true},
		{"9932221111", true},
		{"+55 99 98888-7777", false},
		{"98888-7777", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.phone))
		})
	}
}

func TestIsSuspicious(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"正常内容", "Preciso de monitoramento para minha fazenda", false},
		{"脚本", "<SCRIPT>alert(1)</script>", true},
		{"伪协议", "veja javascript:void(0)", true},
		{"事件属性", `<img onerror = "x">`, true},
		{"BBCode 链接", "[url]http://spam[/url]", true},
		{"垃圾药品", "cheap Viagra", true},
		{"加密货币", "great bitcoin opportunity", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSuspicious(tt.text))
		})
	}
}

func TestRegisterValidators(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, RegisterValidators(v))

	assert.NoError(t, v.Struct(validForm()))

	bad := validForm()
	bad.Phone = "12345-abc-xyz"
	bad.AcceptLGPD = false
	bad.Name = "M"
	err := v.Struct(bad)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := map[string]string{}
	for _, fe := range DescribeValidationErrors(verrs) {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "Nome deve ter pelo menos 2 caracteres", fields["name"])
	assert.Equal(t, "Você deve aceitar os termos da LGPD", fields["acceptLgpd"])
	assert.Contains(t, fields, "phone")
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("清洗后转发", func(t *testing.T) {
		n := &recordingNotifier{}
		svc := NewService(n, nil)

		form := validForm()
		form.Email = " Maria.Silva@Example.com "
		form.Message = "  Olá <b>equipe</b>, preciso de ajuda com integrações & dashboards.  "
		require.NoError(t, svc.Submit(ctx, form, "203.0.113.9"))

		require.Len(t, n.forms, 1)
		got := n.forms[0]
		assert.Equal(t, "maria.silva@example.com", got.Email)
		assert.Equal(t, "Olá equipe, preciso de ajuda com integrações & dashboards.", got.Message)
		assert.Equal(t, "Cartório Central", got.Company)
	})

	t.Run("可疑内容", func(t *testing.T) {
		n := &recordingNotifier{}
		form := validForm()
		form.Message = "invest in crypto now, guaranteed returns"
		err := NewService(n, nil).Submit(ctx, form, "203.0.113.9")
		assert.ErrorIs(t, err, constant.ErrSuspiciousContent)
		assert.Empty(t, n.forms)
	})

	t.Run("通知失败", func(t *testing.T) {
		n := &recordingNotifier{err: errors.New("connection refused")}
		err := NewService(n, nil).Submit(ctx, validForm(), "203.0.113.9")
		assert.ErrorIs(t, err, constant.ErrNotifyFailed)
	})
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "ma***@example.com", MaskEmail("maria@example.com"))
	assert.Equal(t, "invalid", MaskEmail("invalid"))
}

func TestSMTPNotifier_SendsBothMails(t *testing.T) {
	var mu sync.Mutex
	var sent []mailMessage
	n := &smtpNotifier{
		cfg:    MailConfig{Host: "smtp.example.com", Port: 587, From: "contato@calistoai.com.br", To: "equipe@calistoai.com.br"},
		logger: slog.New(slog.DiscardHandler),
		send: func(_ context.Context, _ MailConfig, msg mailMessage) error {
			mu.Lock()
			defer mu.Unlock()
			sent = append(sent, msg)
			return nil
		},
	}
	form := validForm()
	form.Email = "maria@example.com"
	form.Message = "linha 1\n<linha 2>"
	require.NoError(t, n.Notify(context.Background(), form))

	require.Len(t, sent, 2)
	recipients := []string{sent[0].to, sent[1].to}
	assert.ElementsMatch(t, []string{"equipe@calistoai.com.br", "maria@example.com"}, recipients)
	for _, m := range sent {
		assert.Contains(t, m.body, "linha 1<br>&lt;linha 2&gt;")
	}
}

func TestSMTPNotifier_Failure(t *testing.T) {
	n := NewNotifier(MailConfig{Host: "smtp.example.com", Port: 587}, nil).(*smtpNotifier)
	n.send = func(context.Context, MailConfig, mailMessage) error { return errors.New("auth failed") }
	assert.Error(t, n.Notify(context.Background(), validForm()))
}

func TestNewNotifier_WithoutHostOnlyLogs(t *testing.T) {
	n := NewNotifier(MailConfig{}, nil)
	_, ok := n.(*logNotifier)
	assert.True(t, ok)
	assert.NoError(t, n.Notify(context.Background(), validForm()))
}

func TestMailConfigFrom(t *testing.T) {
	mc := MailConfigFrom(config.NewConfigFromMap(map[string]string{
		config.KeyMailHost: " smtp.example.com ",
		config.KeyMailFrom: "site@calistoai.com.br",
	}))
	assert.Equal(t, "smtp.example.com", mc.Host)
	assert.Equal(t, 587, mc.Port)
	assert.Equal(t, "site@calistoai.com.br", mc.To)
}

func TestBuildMessage(t *testing.T) {
	raw := string(buildMessage("a@b.com", mailMessage{to: "c@d.com", subject: "Oi", body: "<p>x</p>"}))
	assert.True(t, strings.HasPrefix(raw, "From: Calisto A.I. <a@b.com>\r\nTo: c@d.com\r\nSubject: Oi\r\n"))
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>x</p>"))
}
