package template

import (
	"context"
	"testing"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	repomocks "gitee.com/autopuzzle/notification-center/internal/repository/mocks"
	"gitee.com/autopuzzle/notification-center/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var admin = domain.Caller{UserID: 1, Roles: []string{domain.RoleAdministrator}}

func TestRender(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		text string
		vars map[string]string
		want string
	}{
		{
			name: "替换已知占位符",
			text: "Hello {customer_name}, your {car_name} is ready",
			vars: map[string]string{"customer_name": "Ali", "car_name": "Peugeot 206"},
			want: "Hello Ali, your Peugeot 206 is ready",
		},
		{
			name: "未知占位符原样保留",
			text: "Hello {customer_name}, ref {inquiry_id}",
			vars: map[string]string{"customer_name": "Ali"},
			want: "Hello Ali, ref {inquiry_id}",
		},
		{
			name: "空上下文不修改内容",
			text: "Hello {customer_name}",
			vars: map[string]string{},
			want: "Hello {customer_name}",
		},
		{
			name: "同一个占位符出现多次",
			text: "{phone} / {phone}",
			vars: map[string]string{"phone": "0912"},
			want: "0912 / 0912",
		},
		{
			name: "替换的值不会再次展开",
			text: "{a}",
			vars: map[string]string{"a": "{b}", "b": "x"},
			want: "{b}",
		},
		{
			name: "任意键都可以替换",
			text: "{meeting_time}",
			vars: map[string]string{"meeting_time": "10:00"},
			want: "10:00",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Render(tc.text, tc.vars))
		})
	}
}

func TestTemplateService_Resolve(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		tpl     domain.Template
		channel domain.Channel
		wantErr error
	}{
		{
			name:    "可用",
			tpl:     domain.Template{ID: 1, Channel: domain.ChannelSMS, IsActive: true},
			channel: domain.ChannelSMS,
		},
		{
			name:    "渠道不一致",
			tpl:     domain.Template{ID: 1, Channel: domain.ChannelEmail, IsActive: true},
			channel: domain.ChannelSMS,
			wantErr: errs.ErrTemplateChannelMismatch,
		},
		{
			name:    "未启用",
			tpl:     domain.Template{ID: 1, Channel: domain.ChannelSMS},
			channel: domain.ChannelSMS,
			wantErr: errs.ErrTemplateInactive,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			repo := repomocks.NewMockTemplateRepository(ctrl)
			repo.EXPECT().GetByID(gomock.Any(), int64(1)).Return(tc.tpl, nil)

			svc := NewService(repo, auth.NewRolePolicy(auth.DefaultGrants()))
			_, err := svc.Resolve(context.Background(), 1, tc.channel)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestTemplateService_Duplicate(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockTemplateRepository(ctrl)
	src := domain.Template{
		ID:        3,
		Channel:   domain.ChannelEmail,
		Name:      "Meeting reminder",
		Subject:   "Reminder",
		Message:   "Dear {customer_name}",
		Variables: []string{"customer_name"},
		IsActive:  true,
	}
	repo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(src, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tpl domain.Template) (domain.Template, error) {
			assert.Zero(t, tpl.ID)
			assert.Equal(t, "Meeting reminder (Copy)", tpl.Name)
			assert.Equal(t, src.Message, tpl.Message)
			assert.Equal(t, src.Subject, tpl.Subject)
			assert.Equal(t, src.Variables, tpl.Variables)
			tpl.ID = 4
			return tpl, nil
		})

	svc := NewService(repo, auth.NewRolePolicy(auth.DefaultGrants()))
	res, err := svc.Duplicate(context.Background(), admin, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.ID)
}

func TestTemplateService_Create(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		caller  domain.Caller
		tpl     domain.Template
		mock    func(repo *repomocks.MockTemplateRepository)
		wantErr error
	}{
		{
			name:   "创建成功，短信模板去掉主题",
			caller: admin,
			tpl:    domain.Template{Channel: domain.ChannelSMS, Name: " welcome ", Subject: "x", Message: "hi", IsActive: true},
			mock: func(repo *repomocks.MockTemplateRepository) {
				repo.EXPECT().Create(gomock.Any(), domain.Template{
					Channel: domain.ChannelSMS, Name: "welcome", Message: "hi", IsActive: true, Variables: []string{},
				}).Return(domain.Template{ID: 1}, nil)
			},
		},
		{
			name:    "名称为空",
			caller:  admin,
			tpl:     domain.Template{Channel: domain.ChannelSMS, Name: " ", Message: "hi"},
			mock:    func(repo *repomocks.MockTemplateRepository) {},
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name:    "专家不能管理模板",
			caller:  domain.Caller{UserID: 2, Roles: []string{domain.RoleExpert}},
			tpl:     domain.Template{Channel: domain.ChannelSMS, Name: "a", Message: "hi"},
			mock:    func(repo *repomocks.MockTemplateRepository) {},
			wantErr: errs.ErrPermissionDenied,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			repo := repomocks.NewMockTemplateRepository(ctrl)
			tc.mock(repo)

			svc := NewService(repo, auth.NewRolePolicy(auth.DefaultGrants()))
			_, err := svc.Create(context.Background(), tc.caller, tc.tpl)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
