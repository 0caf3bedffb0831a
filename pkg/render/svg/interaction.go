package svg

const interactionCSS = `
    .node { transition: opacity 0.2s ease; }
    .curve { transition: stroke-width 0.2s ease, stroke-opacity 0.2s ease; cursor: pointer; }
    .curve:hover { stroke-width: 3; stroke-opacity: 1; }`

const interactionJS = `
    const svg = document.currentScript ? document.currentScript.ownerSVGElement : document.querySelector('svg');
    const root = svg || document.documentElement;
    const curves = root.querySelector('.curves');
    const ns = 'http://www.w3.org/2000/svg';
    let selected = root.getAttribute('data-selected') || null;

    function apply(id) {
      selected = id;
      root.setAttribute('data-selected', id || '');
      const h = id ? highlights[id] : null;
      root.querySelectorAll('.node').forEach(n => {
        const nid = n.getAttribute('data-id');
        const visible = !h || h.visible.includes(nid);
        n.setAttribute('opacity', visible ? '1' : '0.3');
        const c = n.querySelector('circle');
        c.setAttribute('fill', nid === id ? palette.selected : palette.fill);
        c.setAttribute('stroke', visible ? palette.active : palette.inactive);
        c.setAttribute('stroke-width', visible ? '2' : '1');
      });
      while (curves.firstChild) curves.removeChild(curves.firstChild);
      if (!h) return;
      h.curves.forEach(k => {
        const p = document.createElementNS(ns, 'path');
        p.setAttribute('class', 'curve ' + (k.same ? 'same-tier' : 'cross-tier'));
        p.setAttribute('data-key', k.key);
        p.setAttribute('d', k.d);
        p.setAttribute('fill', 'none');
        p.setAttribute('stroke', k.same ? palette.same : palette.cross);
        p.setAttribute('stroke-width', '2');
        p.setAttribute('stroke-opacity', '0.6');
        p.setAttribute('stroke-dasharray', '4');
        curves.appendChild(p);
      });
    }

    root.querySelectorAll('.node').forEach(n => {
      n.addEventListener('click', ev => {
        ev.stopPropagation();
        const id = n.getAttribute('data-id');
        apply(selected === id ? null : id);
      });
    });
    root.querySelector('.background').addEventListener('click', () => apply(null));`
