package client

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	sms "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/sms/v20210111"
)

var _ Client = (*TencentCloudSMS)(nil)

// TencentCloudSMS 腾讯云短信实现
type TencentCloudSMS struct {
	client *sms.Client
	appID  string
}

func NewTencentCloudSMS(regionID, secretID, secretKey, appID string) (*TencentCloudSMS, error) {
	credential := common.NewCredential(secretID, secretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "sms.tencentcloudapi.com"
	client, err := sms.NewClient(credential, regionID, cpf)
	if err != nil {
		return nil, err
	}
	return &TencentCloudSMS{client: client, appID: appID}, nil
}

func (t *TencentCloudSMS) Send(ctx context.Context, req SendReq) (SendResp, error) {
	if len(req.PhoneNumbers) == 0 {
		return SendResp{}, fmt.Errorf("%w: %v", ErrInvalidParameter, "手机号码不能为空")
	}

	request := sms.NewSendSmsRequest()
	request.SetContext(ctx)
	request.SmsSdkAppId = common.StringPtr(t.appID)
	request.SignName = common.StringPtr(req.SignName)
	request.TemplateId = common.StringPtr(req.TemplateID)
	request.PhoneNumberSet = common.StringPtrs(req.PhoneNumbers)
	// 腾讯云的模版参数是有序的，按参数名排序
	request.TemplateParamSet = common.StringPtrs(orderedParams(req.TemplateParam))

	response, err := t.client.SendSms(request)
	if err != nil {
		return SendResp{}, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	if response.Response == nil {
		return SendResp{}, fmt.Errorf("%w: %v", ErrSendFailed, "响应异常")
	}

	result := SendResp{
		PhoneNumbers: make(map[string]SendRespStatus, len(response.Response.SendStatusSet)),
	}
	if response.Response.RequestId != nil {
		result.RequestID = *response.Response.RequestId
	}
	for _, status := range response.Response.SendStatusSet {
		if status == nil || status.PhoneNumber == nil {
			continue
		}
		code := ""
		if status.Code != nil {
			code = *status.Code
		}
		// 腾讯云成功码是 Ok
		if strings.EqualFold(code, OK) {
			code = OK
		}
		msg := ""
		if status.Message != nil {
			msg = *status.Message
		}
		result.PhoneNumbers[*status.PhoneNumber] = SendRespStatus{Code: code, Message: msg}
	}
	return result, nil
}

func orderedParams(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	res := make([]string, 0, len(keys))
	for _, k := range keys {
		res = append(res, params[k])
	}
	return res
}
