package template

import (
	"sort"
	"strings"

	"gitee.com/autopuzzle/notification-center/internal/domain"
)

// Render 把 {name} 替换成 vars 中的值
// 只做一遍替换，替换进来的值里面即使有占位符也不会再展开；vars 中没有的占位符原样保留
func Render(text string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(text, "{") {
		return text
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// RenderTemplate 渲染模板的正文和主题
func RenderTemplate(tpl domain.Template, vars map[string]string) (subject, body string) {
	return Render(tpl.Subject, vars), Render(tpl.Message, vars)
}
