// Package jalali 波斯历（Jalali/Shamsi）日期的解析和格式化，历法换算交给 ptime
package jalali

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// GregorianYearThreshold 按波斯历解析时，年份不小于它就认为用户输入的其实是公历
const GregorianYearThreshold = 1700

var (
	ErrInvalidDate = errors.New("日期格式非法")
	ErrInvalidTime = errors.New("时间格式非法")

	datePattern = regexp.MustCompile(`^(\d{3,4})/(\d{1,2})/(\d{1,2})$`)
	timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?$`)

	digitReplacer = strings.NewReplacer(
		"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
		"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
		"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
		"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	)
)

// ToEnglishDigits 波斯数字和阿拉伯数字替换成 ASCII 数字
func ToEnglishDigits(s string) string {
	return digitReplacer.Replace(s)
}

// ToGregorian 波斯历转公历
func ToGregorian(jy, jm, jd int) (gy, gm, gd int) {
	// 取正午，避免任何时区换算跨天
	t := ptime.Date(jy, ptime.Month(jm), jd, 12, 0, 0, 0, time.UTC).Time()
	return t.Year(), int(t.Month()), t.Day()
}

// FromGregorian 公历转波斯历
func FromGregorian(gy, gm, gd int) (jy, jm, jd int) {
	pt := ptime.New(time.Date(gy, time.Month(gm), gd, 12, 0, 0, 0, time.UTC))
	return pt.Year(), int(pt.Month()), pt.Day()
}

// IsValid 通过往返换算判断日期是否存在，例如平年的 12/30
func IsValid(jy, jm, jd int) bool {
	if jy < 1 || jm < 1 || jm > 12 || jd < 1 || jd > 31 {
		return false
	}
	if jm > 6 && jd > 30 {
		return false
	}
	y, m, d := FromGregorian(ToGregorian(jy, jm, jd))
	return y == jy && m == jm && d == jd
}

// NormalizeDate 统一成 YYYY/MM/DD，支持 - 和 . 作为分隔符以及波斯数字
func NormalizeDate(value string) (string, error) {
	y, m, d, err := splitDate(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d/%02d/%02d", y, m, d), nil
}

func splitDate(value string) (y, m, d int, err error) {
	value = strings.TrimSpace(value)
	value = strings.NewReplacer("-", "/", ".", "/").Replace(value)
	value = ToEnglishDigits(value)
	matches := datePattern.FindStringSubmatch(value)
	if matches == nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	y, _ = strconv.Atoi(matches[1])
	m, _ = strconv.Atoi(matches[2])
	d, _ = strconv.Atoi(matches[3])
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return y, m, d, nil
}

func splitClock(value string) (h, mi, s int, err error) {
	value = ToEnglishDigits(strings.TrimSpace(value))
	if value == "" {
		return 0, 0, 0, nil
	}
	matches := timePattern.FindStringSubmatch(value)
	if matches == nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	h, _ = strconv.Atoi(matches[1])
	mi, _ = strconv.Atoi(matches[2])
	if matches[3] != "" {
		s, _ = strconv.Atoi(matches[3])
	}
	if h > 23 || mi > 59 || s > 59 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return h, mi, s, nil
}

// ParseDate 解析日期，返回 loc 时区当天 00:00
// isJalali 为 true 时按波斯历解析，年份 >= GregorianYearThreshold 时按公历处理
func ParseDate(value string, isJalali bool, loc *time.Location) (time.Time, error) {
	return ParseDateTime(value, "", isJalali, loc)
}

// ParseDateTime 把本地日期和时间换算成绝对时间，clock 为空表示 00:00
func ParseDateTime(date, clock string, isJalali bool, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	y, m, d, err := splitDate(date)
	if err != nil {
		return time.Time{}, err
	}
	h, mi, s, err := splitClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	if isJalali && y < GregorianYearThreshold {
		if !IsValid(y, m, d) {
			return time.Time{}, fmt.Errorf("%w: %04d/%02d/%02d", ErrInvalidDate, y, m, d)
		}
		y, m, d = ToGregorian(y, m, d)
	}
	t := time.Date(y, time.Month(m), d, h, mi, s, 0, loc)
	// time.Date 会把 2 月 30 日顺延，这里拒绝
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, fmt.Errorf("%w: %04d/%02d/%02d", ErrInvalidDate, y, m, d)
	}
	return t, nil
}

// FormatDate 把时间格式化为 loc 时区的波斯历日期 YYYY/MM/DD
func FormatDate(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	pt := ptime.New(t)
	return fmt.Sprintf("%04d/%02d/%02d", pt.Year(), int(pt.Month()), pt.Day())
}

// FormatDateTime 波斯历日期加 24 小时制时间
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return FormatDate(t, nil) + t.Format(" 15:04:05")
}
