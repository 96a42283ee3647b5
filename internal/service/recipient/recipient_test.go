package recipient

import (
	"context"
	"errors"
	"testing"

	"gitee.com/autopuzzle/notification-center/internal/domain"
	"gitee.com/autopuzzle/notification-center/internal/errs"
	repomocks "gitee.com/autopuzzle/notification-center/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestResolver_Expand(t *testing.T) {
	t.Parallel()

	experts := []domain.User{
		{ID: 3, Role: domain.RoleExpert, Mobile: "09120000003", Email: "c@example.com"},
		{ID: 5, Role: domain.RoleExpert, Mobile: "", Email: "e@example.com"},
		{ID: 8, Role: domain.RoleExpert, Mobile: "09120000008"},
	}

	testCases := []struct {
		name    string
		channel domain.Channel
		spec    domain.RecipientSpec
		mock    func(users *repomocks.MockUserRepository)
		want    []string
		wantErr error
	}{
		{
			name:    "单个地址",
			channel: domain.ChannelSMS,
			spec:    domain.Single(" 09121111111 "),
			mock:    func(users *repomocks.MockUserRepository) {},
			want:    []string{"09121111111"},
		},
		{
			name:    "自定义列表去重去空行",
			channel: domain.ChannelEmail,
			spec:    domain.CustomList(domain.ParseCustomList("a@example.com\n\n b@example.com \r\na@example.com\n")),
			mock:    func(users *repomocks.MockUserRepository) {},
			want:    []string{"a@example.com", "b@example.com"},
		},
		{
			name:    "角色组短信跳过没有手机号的用户",
			channel: domain.ChannelSMS,
			spec:    domain.Group(domain.RoleGroupExperts),
			mock: func(users *repomocks.MockUserRepository) {
				users.EXPECT().FindByRole(gomock.Any(), domain.RoleExpert).Return(experts, nil)
			},
			want: []string{"09120000003", "09120000008"},
		},
		{
			name:    "角色组站内信使用用户 ID",
			channel: domain.ChannelInApp,
			spec:    domain.Group(domain.RoleGroupExperts),
			mock: func(users *repomocks.MockUserRepository) {
				users.EXPECT().FindByRole(gomock.Any(), domain.RoleExpert).Return(experts, nil)
			},
			want: []string{"3", "5", "8"},
		},
		{
			name:    "全部用户",
			channel: domain.ChannelEmail,
			spec:    domain.Group(domain.RoleGroupAll),
			mock: func(users *repomocks.MockUserRepository) {
				users.EXPECT().FindByRole(gomock.Any(), "").Return(experts, nil)
			},
			want: []string{"c@example.com", "e@example.com"},
		},
		{
			name:    "空角色组",
			channel: domain.ChannelSMS,
			spec:    domain.Group(domain.RoleGroupAdmins),
			mock: func(users *repomocks.MockUserRepository) {
				users.EXPECT().FindByRole(gomock.Any(), domain.RoleAdministrator).Return(nil, nil)
			},
			want: []string{},
		},
		{
			name:    "未知角色组",
			channel: domain.ChannelSMS,
			spec:    domain.Group("vip"),
			mock:    func(users *repomocks.MockUserRepository) {},
			wantErr: errs.ErrInvalidParameter,
		},
		{
			name:    "查询用户失败",
			channel: domain.ChannelSMS,
			spec:    domain.Group(domain.RoleGroupCustomers),
			mock: func(users *repomocks.MockUserRepository) {
				users.EXPECT().FindByRole(gomock.Any(), domain.RoleCustomer).Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			users := repomocks.NewMockUserRepository(ctrl)
			tc.mock(users)

			got, err := NewResolver(users).Expand(context.Background(), tc.channel, tc.spec)
			if tc.wantErr != nil {
				assert.Error(t, err)
				if errors.Is(tc.wantErr, errs.ErrInvalidParameter) {
					assert.ErrorIs(t, err, errs.ErrInvalidParameter)
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
