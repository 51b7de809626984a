// pkg/types/common.go
package types

import (
	"fmt"
	"path"
	"strings"
)

// Key 代表一个文件在后端介质中的逻辑标识 (S3 Key 或本地全路径)
// 这是一个"值对象"，应当是不可变的。
type Key string

func (k Key) String() string { return string(k) }

func (k Key) IsZero() bool { return k == "" }

// Base 返回 Key 的最后一段，作为文件的显示名
func (k Key) Base() string { return path.Base(string(k)) }

// Dir 返回 Key 的父级，作为文件的逻辑目录
func (k Key) Dir() string { return path.Dir(string(k)) }

// ACL 是 Bucket 的访问控制级别 (Canned ACL)
type ACL string

const (
	ACLPrivate           ACL = "private"
	ACLPublicRead        ACL = "public-read"
	ACLPublicReadWrite   ACL = "public-read-write"
	ACLAuthenticatedRead ACL = "authenticated-read"
)

func (a ACL) String() string { return string(a) }

// OrDefault 空值回落为 private
func (a ACL) OrDefault() ACL {
	if a == "" {
		return ACLPrivate
	}
	return a
}

func (a ACL) IsValid() bool {
	switch a {
	case ACLPrivate, ACLPublicRead, ACLPublicReadWrite, ACLAuthenticatedRead:
		return true
	}
	return false
}

// ParseACL 解析配置文件里的 acl 字符串，大小写不敏感，空串视为 private
func ParseACL(s string) (ACL, error) {
	acl := ACL(strings.ToLower(strings.TrimSpace(s))).OrDefault()
	if !acl.IsValid() {
		return "", fmt.Errorf("invalid bucket acl %q", s)
	}
	return acl, nil
}
