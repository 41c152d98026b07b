// directory-seed：目录数据的离线维护工具（建表、导入 YAML、查看数据）
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
