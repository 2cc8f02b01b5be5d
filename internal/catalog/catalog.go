package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"go.uber.org/zap"
)

// 词库是只读的：启动时从 JSON 文件加载一次，之后不再修改
type WordPair struct {
	Secret   string `json:"secret"`
	Impostor string `json:"impostor"`
}

type Category struct {
	Name  string     `json:"name"`
	Words []WordPair `json:"words"`
}

type Catalog struct {
	Categories []Category `json:"categories"`
}

func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取词库文件失败: %w", err)
	}

	var cat Catalog

	if err := json.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("解析词库文件失败: %w", err)
	}

	if len(cat.Categories) == 0 {
		return nil, errors.New("词库为空：至少需要一个分类")
	}

	for _, c := range cat.Categories {
		if c.Name == "" {
			return nil, errors.New("词库分类名称不能为空")
		}
		if len(c.Words) == 0 {
			return nil, fmt.Errorf("词库分类 %s 没有词组", c.Name)
		}
	}

	zap.S().Infof("词库加载完成，共 %d 个分类", len(cat.Categories))

	return &cat, nil
}

// RandomPair 先均匀抽取一个分类，再在分类内均匀抽取一对词
func (c *Catalog) RandomPair() (string, WordPair) {
	category := c.Categories[rand.IntN(len(c.Categories))]
	pair := category.Words[rand.IntN(len(category.Words))]

	return category.Name, pair
}
