/*
 * @Description: 后台任务接口
 * @Date: 2026-10-18 15:24:10
 */
package task

// Job 与 cron.Job 接口兼容，Name 用于日志
type Job interface {
	Run()
	Name() string
}
