package objpool

import "sync"

// Resettable - объекты, которые можно переиспользовать после Reset
type Resettable interface {
	Reset()
}

// Pool - generic пул объектов; объект сбрасывается при возврате в пул
type Pool[T Resettable] struct {
	internal sync.Pool
}

func New[T Resettable](newFunc func() T) *Pool[T] {
	return &Pool[T]{internal: sync.Pool{
		New: func() any { return newFunc() },
	}}
}

func (p *Pool[T]) Get() T {
	return p.internal.Get().(T)
}

func (p *Pool[T]) Put(obj T) {
	obj.Reset()
	p.internal.Put(obj)
}

// With берёт объект из пула на время вызова fn
func With[T Resettable, R any](p *Pool[T], fn func(T) R) R {
	obj := p.Get()
	defer p.Put(obj)
	return fn(obj)
}
