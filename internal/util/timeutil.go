package util

import "time"

// NaiveLocal 把 t 转到部署时区后抹掉时区信息（挂成 UTC 存储）。
// 所有 InteractionRecord 时间戳和作弊检测的窗口比较都必须走这一个约定。
func NaiveLocal(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), lt.Minute(), lt.Second(), lt.Nanosecond(), time.UTC)
}
