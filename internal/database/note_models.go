package database

import (
	"time"
)

// Note 笔记模型
// 纯文本内容，归属于唯一的用户，携带创建/修改时间戳
// ShareID是创建时生成、终身不变的公开分享标识，与NoteID相互独立
// 笔记的标签集合通过note_tags关联表派生，不在笔记行上存储
type Note struct {
	ID        uint      `gorm:"primarykey" json:"-"`                          // 主键ID，自增
	NoteID    string    `gorm:"not null;uniqueIndex;size:36" json:"id"`       // 笔记对外标识，UUID
	OwnerID   string    `gorm:"not null;index;size:36" json:"-"`              // 所属用户标识，外键
	Content   string    `gorm:"not null;type:text" json:"content"`            // 笔记内容，必填
	ShareID   string    `gorm:"not null;uniqueIndex;size:36" json:"share_id"` // 公开分享标识，UUID，创建后不再变化
	CreatedAt time.Time `json:"created_at"`                                   // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                   // 最后修改时间
}

// TableName 指定Note模型对应的数据库表名
func (Note) TableName() string {
	return "notes"
}

// Tag 标签模型
// 标签对所有用户全局共享，Label以规范化形式存储（去除首尾空白并转小写）且全局唯一
// 首次使用某个标签时惰性创建，失去引用后不会自动删除
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"-"`                      // 主键ID，自增
	TagID     string    `gorm:"not null;uniqueIndex;size:36" json:"id"`   // 标签对外标识，UUID
	Label     string    `gorm:"not null;uniqueIndex;size:100" json:"label"` // 规范化标签文本，全局唯一
	CreatedAt time.Time `json:"created_at"`                               // 创建时间
}

// TableName 指定Tag模型对应的数据库表名
func (Tag) TableName() string {
	return "tags"
}

// NoteTag 笔记标签关联模型
// 以(note_id, tag_id)为复合主键，同一对最多存在一条关联
// 笔记或标签删除时由外键级联移除关联
type NoteTag struct {
	NoteID    uint      `gorm:"primaryKey" json:"note_id"` // 笔记ID，外键
	TagID     uint      `gorm:"primaryKey" json:"tag_id"`  // 标签ID，外键
	CreatedAt time.Time `json:"created_at"`                // 关联创建时间

	Note Note `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"-"` // 关联的笔记
	Tag  Tag  `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`  // 关联的标签
}

// TableName 指定NoteTag模型对应的数据库表名
func (NoteTag) TableName() string {
	return "note_tags"
}
