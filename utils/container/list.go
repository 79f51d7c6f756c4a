package container

import (
	"fmt"
	"log"
)

// ListNode 双向链表中的节点
// 功能：表示双向链表中的一个节点，保存一个元素值
// 说明：支持泛型，可以存储任意类型的值
type ListNode[T any] struct {
	parent     *List[T]     // 所属链表
	prev, next *ListNode[T] // 前驱和后继节点
	Value      T            // 元素值
}

// NewNode 创建尚未加入任何链表的节点
func NewNode[T any](value T) *ListNode[T] {
	return &ListNode[T]{Value: value}
}

// String 获取节点的字符串表示
func (n *ListNode[T]) String() string {
	return fmt.Sprintf("Node{Value:%+v}", n.Value)
}

// Parent 获取节点所在的链表
// 返回：链表指针，未加入链表时为nil
func (n *ListNode[T]) Parent() *List[T] {
	return n.parent
}

// List 双向链表
// 功能：先进先出的车辆队列底层结构，支持O(1)的队尾插入与任意节点移除
type List[T any] struct {
	ID         string       // 链表标识符
	head, tail *ListNode[T] // 头尾节点指针
	length     int          // 链表长度
}

// String 获取链表的字符串表示
func (l *List[T]) String() string {
	return fmt.Sprintf("List{ID:%v, Len:%d}", l.ID, l.length)
}

// Values 获取双向链表中所有节点的值
// 功能：按从头到尾的顺序返回链表中所有节点的值
func (l *List[T]) Values() []T {
	values := make([]T, l.length)
	for i, node := 0, l.head; node != nil; i, node = i+1, node.next {
		values[i] = node.Value
	}
	return values
}

// Len 获取双向链表长度
func (l *List[T]) Len() int {
	return l.length
}

// PushBack 向链表尾部插入节点
// 参数：add-要插入的新节点
// 算法说明：
// 1. 检查新节点是否已经在其他链表中
// 2. 如果链表为空，直接设置为头尾节点
// 3. 如果链表不为空，接在尾节点之后并更新尾指针
func (l *List[T]) PushBack(add *ListNode[T]) {
	if add.parent != nil {
		log.Panic("push back node who already in list")
	}
	add.parent = l
	add.next = nil
	add.prev = l.tail
	if l.tail == nil {
		l.head = add
	} else {
		l.tail.next = add
	}
	l.tail = add
	l.length++
}

// Remove 从链表中移除节点
// 功能：从链表中删除指定的节点
// 参数：node-要删除的节点
// 算法说明：
// 1. 检查节点是否属于当前链表
// 2. 更新前驱、后继节点的指针，必要时更新头尾指针
// 3. 清空被删除节点的指针并减少链表长度计数
func (l *List[T]) Remove(node *ListNode[T]) {
	if node.parent != l {
		log.Panic("remove node from wrong list")
	}
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	node.parent = nil
	l.length--
}

// First 获取链表头部节点，链表为空则返回nil
func (l *List[T]) First() *ListNode[T] {
	return l.head
}
