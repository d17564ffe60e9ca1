package cubo

import "log"

type IterOptions struct {
	StartPage  int
	PageSize   int
	LimitPages int // 0 = todas as páginas
}

// ItemIterator percorre as páginas da API emitindo itens um a um,
// no estilo de rows.Next(). A primeira página descobre totalPages;
// cancelar é simplesmente parar de chamar Next.
type ItemIterator struct {
	client *Client
	termo  string
	opts   IterOptions

	page           int
	totalPages     int
	total          int
	pagesProcessed int
	buf            []Item
	idx            int
	cur            Item
	started        bool
	done           bool
	err            error
}

func (c *Client) Items(termo string, opts IterOptions) *ItemIterator {
	if opts.StartPage < 1 {
		opts.StartPage = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 50
	}
	return &ItemIterator{
		client: c,
		termo:  termo,
		opts:   opts,
		page:   opts.StartPage,
	}
}

func (it *ItemIterator) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if !it.started {
		if !it.fetch() {
			return false
		}
		it.started = true
		log.Printf("[Cubo] Iniciando iteração: %d páginas, %d itens na API", it.totalPages, it.total)
	}
	for {
		if it.idx < len(it.buf) {
			it.cur = it.buf[it.idx]
			it.idx++
			return true
		}
		it.pagesProcessed++
		if it.opts.LimitPages > 0 && it.pagesProcessed >= it.opts.LimitPages {
			it.done = true
			return false
		}
		it.page++
		// totalPages pode ser otimista; páginas vazias dentro do range
		// não são erro, apenas não emitem itens.
		if it.page > it.totalPages {
			it.done = true
			return false
		}
		if !it.fetch() {
			return false
		}
	}
}

func (it *ItemIterator) fetch() bool {
	p, err := it.client.FetchPage(it.termo, it.page, it.opts.PageSize)
	if err != nil {
		it.err = err
		it.done = true
		return false
	}
	if !it.started {
		it.totalPages = p.TotalPages
		if it.totalPages < 1 {
			it.totalPages = 1
		}
		it.total = p.Total
	}
	it.buf = p.Items
	it.idx = 0
	return true
}

// Item retorna o item corrente após um Next verdadeiro.
func (it *ItemIterator) Item() Item { return it.cur }

// Err retorna a falha que encerrou a iteração, se houver.
func (it *ItemIterator) Err() error { return it.err }

func (it *ItemIterator) Total() int      { return it.total }
func (it *ItemIterator) TotalPages() int { return it.totalPages }
