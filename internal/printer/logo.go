package printer

// logoArt is the MEDDATA banner shown on startup.
const logoArt = `
    ███╗   ███╗███████╗██████╗ ██████╗  █████╗ ████████╗ █████╗
    ████╗ ████║██╔════╝██╔══██╗██╔══██╗██╔══██╗╚══██╔══╝██╔══██╗
    ██╔████╔██║█████╗  ██║  ██║██║  ██║███████║   ██║   ███████║
    ██║╚██╔╝██║██╔══╝  ██║  ██║██║  ██║██╔══██║   ██║   ██╔══██║
    ██║ ╚═╝ ██║███████╗██████╔╝██████╔╝██║  ██║   ██║   ██║  ██║
    ╚═╝     ╚═╝╚══════╝╚═════╝ ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝

    Engineering Hub
`
