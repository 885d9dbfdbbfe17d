/*
 * @Description: 标准错误
 * @Date: 2026-10-18 09:12:40
 */
package constant

import "errors"

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到，可以由 Handler 转换为 404
	ErrNotFound = errors.New("resource not found")

	// ErrBaseURLUnresolved 生产环境下没有任何显式配置的站点 URL，属于部署缺陷，启动直接失败
	ErrBaseURLUnresolved = errors.New("site base URL is not configured for production")

	// ErrBaseURLInvalid 站点 URL 不是合法的 http(s) 绝对地址
	ErrBaseURLInvalid = errors.New("site base URL is invalid")

	// ErrURLOutOfScope 拼接后的地址与站点 URL 的协议、主机或端口不一致
	ErrURLOutOfScope = errors.New("url is outside the site base URL")

	// ErrNoURLs 收集结果为空，空站点地图永远不是合法输出
	ErrNoURLs = errors.New("no URLs found for the sitemap")

	// ErrEmptyDocument 构建器前置条件：没有任何条目
	ErrEmptyDocument = errors.New("cannot build a sitemap document without entries")

	// ErrTooManyItems 单个文档超出 50,000 条
	ErrTooManyItems = errors.New("item count exceeds the sitemap protocol limit")

	// ErrNestedIndex 索引引用了另一个索引，搜索引擎不会跟随
	ErrNestedIndex = errors.New("nested sitemap index is not allowed")

	// ErrMissingLoc <url> 缺少 <loc>
	ErrMissingLoc = errors.New("sitemap entry is missing loc")

	// ErrInvalidDocument 生成的文档没有通过校验，Handler 转换为 500
	ErrInvalidDocument = errors.New("generated sitemap is invalid")

	// ErrInvalidPage 分页参数不是正整数，Handler 转换为 400
	ErrInvalidPage = errors.New("invalid sitemap page number")

	// ErrPageNotFound 请求的分页超出实际分页数，Handler 转换为 404
	ErrPageNotFound = errors.New("sitemap page not found")

	// ErrSuspiciousContent 联系表单命中可疑内容规则
	ErrSuspiciousContent = errors.New("suspicious content detected")

	// ErrNotifyFailed 联系表单通知发送失败
	ErrNotifyFailed = errors.New("failed to send notification")
)
