package constants

// 请求上下文键
const (
	ContextKeySubjectID = "subject_id"
	ContextKeyEmail     = "user_email"
	ContextKeyToken     = "auth_token"
)

// 二次验证码默认参数
const (
	TwoFactorCodeLength    = 6
	TwoFactorExpireMinutes = 10
	TwoFactorCodeMin       = 100000
	TwoFactorCodeMax       = 999999
)

// Google securetoken 公钥证书地址
const DefaultFirebaseCertURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"
