package util

import (
	"errors"
	"os/exec"
	"runtime"
)

// browserCommands 各平台依次尝试的打开命令
//
// Windows 优先 rundll32 url.dll（Windows 7 上比 cmd /c start 稳定），Linux 先 xdg-open 再试常见浏览器。
func browserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		cmds := [][]string{{"xdg-open", url}}
		for _, b := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			cmds = append(cmds, []string{b, url})
		}
		return cmds
	}
}

// OpenBrowserWithFallback 打开默认浏览器，首选方式失败时依次尝试备选命令
func OpenBrowserWithFallback(url string) error {
	var errs []error
	for _, args := range browserCommands(runtime.GOOS, url) {
		err := exec.Command(args[0], args[1:]...).Start()
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
